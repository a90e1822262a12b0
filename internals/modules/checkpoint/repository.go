package checkpoint

import (
	"context"

	"powermon/pkg/apperror"
	"powermon/pkg/db"
	"powermon/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

type Repository struct {
	db     db.DBTX
	logger *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *Repository {
	return &Repository{
		db:     dbExecutor,
		logger: logger,
	}
}

const checkpointColumns = `id, name, ip_address, is_active, created_at, updated_at`

func scanCheckpoint(row pgx.Row) (Checkpoint, error) {
	var (
		id        pgtype.UUID
		c         Checkpoint
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &c.Name, &c.Address, &c.Active, &createdAt, &updatedAt); err != nil {
		return Checkpoint{}, err
	}
	c.ID = utils.FromPgUUID(id)
	c.CreatedAt = utils.FromPgTimestamptz(createdAt)
	c.UpdatedAt = utils.FromPgTimestamptz(updatedAt)
	return c, nil
}

const insertCheckpoint = `
INSERT INTO smart_switches (id, name, ip_address, is_active)
VALUES ($1, $2, $3, $4)
RETURNING ` + checkpointColumns

func (r *Repository) Create(ctx context.Context, cmd CreateCheckpointCmd) (Checkpoint, error) {
	const op string = "repo.checkpoint.create"

	c, err := scanCheckpoint(r.db.QueryRow(ctx, insertCheckpoint,
		utils.ToPgUUID(uuid.New()), cmd.Name, cmd.Address, cmd.Active))
	if err == nil {
		return c, nil
	}

	return Checkpoint{}, utils.WrapRepoError(op, err, false, r.logger)
}

// upsertCheckpoint keys on name so a seed file can be applied on every start.
const upsertCheckpoint = `
INSERT INTO smart_switches (id, name, ip_address, is_active)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE
SET ip_address = EXCLUDED.ip_address, is_active = EXCLUDED.is_active, updated_at = now()
RETURNING ` + checkpointColumns

func (r *Repository) Upsert(ctx context.Context, cmd CreateCheckpointCmd) (Checkpoint, error) {
	const op string = "repo.checkpoint.upsert"

	c, err := scanCheckpoint(r.db.QueryRow(ctx, upsertCheckpoint,
		utils.ToPgUUID(uuid.New()), cmd.Name, cmd.Address, cmd.Active))
	if err == nil {
		return c, nil
	}

	return Checkpoint{}, utils.WrapRepoError(op, err, false, r.logger)
}

const getCheckpoint = `SELECT ` + checkpointColumns + ` FROM smart_switches WHERE id = $1`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Checkpoint, error) {
	const op string = "repo.checkpoint.get_by_id"

	c, err := scanCheckpoint(r.db.QueryRow(ctx, getCheckpoint, utils.ToPgUUID(id)))
	if err == nil {
		return c, nil
	}

	return Checkpoint{}, utils.WrapRepoError(op, err, true, r.logger)
}

const listCheckpoints = `
SELECT ` + checkpointColumns + `
FROM smart_switches
WHERE ($1::boolean = false OR is_active)
ORDER BY name`

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]Checkpoint, error) {
	const op string = "repo.checkpoint.list"

	rows, err := r.db.Query(ctx, listCheckpoints, activeOnly)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	out := make([]Checkpoint, 0)
	for rows.Next() {
		c, err := scanCheckpoint(rows)
		if err != nil {
			return nil, utils.WrapRepoError(op, err, false, r.logger)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	return out, nil
}

const setActive = `
UPDATE smart_switches SET is_active = $2, updated_at = now()
WHERE id = $1
RETURNING ` + checkpointColumns

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (Checkpoint, error) {
	const op string = "repo.checkpoint.set_active"

	c, err := scanCheckpoint(r.db.QueryRow(ctx, setActive, utils.ToPgUUID(id), active))
	if err == nil {
		return c, nil
	}

	return Checkpoint{}, utils.WrapRepoError(op, err, true, r.logger)
}

// Delete cascades to the checkpoint's power checks.
const deleteCheckpoint = `DELETE FROM smart_switches WHERE id = $1`

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const op string = "repo.checkpoint.delete"

	tag, err := r.db.Exec(ctx, deleteCheckpoint, utils.ToPgUUID(id))
	if err == nil {
		if tag.RowsAffected() == 0 {
			return &apperror.Error{
				Kind:    apperror.NotFound,
				Op:      op,
				Message: "checkpoint not found",
			}
		}
		return nil
	}

	return utils.WrapRepoError(op, err, false, r.logger)
}
