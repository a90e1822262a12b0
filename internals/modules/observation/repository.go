package observation

import (
	"context"
	"errors"
	"time"

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

const insertObservation = `
INSERT INTO power_checks (switch_id, is_online, response_ms, error_message, failure_kind, checked_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (r *Repository) Record(ctx context.Context, o Observation) (Observation, error) {
	const op string = "repo.observation.record"

	var kind *string
	if o.FailureKind != "" {
		k := string(o.FailureKind)
		kind = &k
	}

	err := r.db.QueryRow(ctx, insertObservation,
		utils.ToPgUUID(o.CheckpointID),
		o.Reachable,
		utils.ToPgMillis(o.Latency),
		utils.ToPgText(o.Reason),
		utils.ToPgText(kind),
		utils.ToPgTimestamptz(o.CheckedAt),
	).Scan(&o.ID)
	if err == nil {
		return o, nil
	}

	return Observation{}, utils.WrapRepoError(op, err, false, r.logger)
}

const countInWindow = `
SELECT count(*), count(*) FILTER (WHERE is_online)
FROM power_checks
WHERE switch_id = $1 AND checked_at >= $2`

func (r *Repository) CountInWindow(ctx context.Context, checkpointID uuid.UUID, since time.Time) (int64, int64, error) {
	const op string = "repo.observation.count_in_window"

	var total, reachable int64
	err := r.db.QueryRow(ctx, countInWindow, utils.ToPgUUID(checkpointID), utils.ToPgTimestamptz(since)).
		Scan(&total, &reachable)
	if err == nil {
		return total, reachable, nil
	}

	return 0, 0, utils.WrapRepoError(op, err, false, r.logger)
}

const selectColumns = `id, switch_id, is_online, response_ms, error_message, failure_kind, checked_at`

func scanObservation(row pgx.Row) (Observation, error) {
	var (
		id        int64
		switchID  pgtype.UUID
		online    bool
		latency   pgtype.Float8
		reason    pgtype.Text
		kind      pgtype.Text
		checkedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &switchID, &online, &latency, &reason, &kind, &checkedAt); err != nil {
		return Observation{}, err
	}

	o := Observation{
		ID:           id,
		CheckpointID: utils.FromPgUUID(switchID),
		CheckedAt:    utils.FromPgTimestamptz(checkedAt),
		Reachable:    online,
		Latency:      utils.FromPgMillis(latency),
		Reason:       utils.FromPgText(reason),
	}
	if kind.Valid {
		o.FailureKind = apperror.Kind(kind.String)
	}
	return o, nil
}

const latestObservation = `
SELECT ` + selectColumns + `
FROM power_checks
WHERE switch_id = $1
ORDER BY checked_at DESC
LIMIT 1`

// Latest returns nil, nil when the checkpoint was never checked.
func (r *Repository) Latest(ctx context.Context, checkpointID uuid.UUID) (*Observation, error) {
	const op string = "repo.observation.latest"

	o, err := scanObservation(r.db.QueryRow(ctx, latestObservation, utils.ToPgUUID(checkpointID)))
	if err == nil {
		return &o, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return nil, utils.WrapRepoError(op, err, false, r.logger)
}

const listObservations = `
SELECT ` + selectColumns + `
FROM power_checks
WHERE checked_at >= $1 AND ($2::uuid IS NULL OR switch_id = $2)
ORDER BY checked_at DESC
LIMIT $3`

func (r *Repository) List(ctx context.Context, f Filter) ([]Observation, error) {
	const op string = "repo.observation.list"

	switchID := pgtype.UUID{}
	if f.CheckpointID != nil {
		switchID = utils.ToPgUUID(*f.CheckpointID)
	}

	rows, err := r.db.Query(ctx, listObservations, utils.ToPgTimestamptz(f.Since), switchID, f.Limit)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	out := make([]Observation, 0, f.Limit)
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, utils.WrapRepoError(op, err, false, r.logger)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	return out, nil
}

const totalsSince = `
SELECT count(*), count(*) FILTER (WHERE NOT is_online)
FROM power_checks
WHERE checked_at >= $1`

func (r *Repository) Totals(ctx context.Context, since time.Time) (Totals, error) {
	const op string = "repo.observation.totals"

	var t Totals
	err := r.db.QueryRow(ctx, totalsSince, utils.ToPgTimestamptz(since)).Scan(&t.Total, &t.Failed)
	if err == nil {
		return t, nil
	}

	return Totals{}, utils.WrapRepoError(op, err, false, r.logger)
}

const deleteOlderThan = `DELETE FROM power_checks WHERE checked_at < $1`

func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const op string = "repo.observation.delete_older_than"

	tag, err := r.db.Exec(ctx, deleteOlderThan, utils.ToPgTimestamptz(cutoff))
	if err == nil {
		return tag.RowsAffected(), nil
	}

	return 0, utils.WrapRepoError(op, err, false, r.logger)
}
