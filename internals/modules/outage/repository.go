package outage

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

const outageColumns = `id, started_at, ended_at, duration_seconds, switches_affected, is_ongoing`

func scanOutage(row pgx.Row) (Outage, error) {
	var (
		id        pgtype.UUID
		startedAt pgtype.Timestamptz
		endedAt   pgtype.Timestamptz
		duration  pgtype.Int8
		o         Outage
	)
	if err := row.Scan(&id, &startedAt, &endedAt, &duration, &o.Affected, &o.Ongoing); err != nil {
		return Outage{}, err
	}
	o.ID = utils.FromPgUUID(id)
	o.StartedAt = utils.FromPgTimestamptz(startedAt)
	o.EndedAt = utils.FromPgTimestamptzPtr(endedAt)
	o.DurationSeconds = utils.FromPgInt8(duration)
	if o.Affected == nil {
		o.Affected = []uuid.UUID{}
	}
	return o, nil
}

const insertOutage = `
INSERT INTO power_outages (id, started_at, switches_affected, is_ongoing)
VALUES ($1, $2, $3, true)`

// Create fails with AlreadyExists if another outage is still ongoing.
func (r *Repository) Create(ctx context.Context, o Outage) error {
	const op string = "repo.outage.create"

	affected := o.Affected
	if affected == nil {
		affected = []uuid.UUID{}
	}

	_, err := r.db.Exec(ctx, insertOutage, utils.ToPgUUID(o.ID), utils.ToPgTimestamptz(o.StartedAt), affected)
	if err == nil {
		return nil
	}

	return utils.WrapRepoError(op, err, false, r.logger)
}

const closeOutage = `
UPDATE power_outages
SET ended_at = $2, duration_seconds = $3, is_ongoing = false
WHERE id = $1 AND is_ongoing`

func (r *Repository) Close(ctx context.Context, o Outage) error {
	const op string = "repo.outage.close"

	var endedAt time.Time
	if o.EndedAt != nil {
		endedAt = *o.EndedAt
	}

	tag, err := r.db.Exec(ctx, closeOutage, utils.ToPgUUID(o.ID), utils.ToPgTimestamptz(endedAt), utils.ToPgInt8(o.DurationSeconds))
	if err == nil {
		if tag.RowsAffected() == 0 {
			return &apperror.Error{
				Kind:    apperror.NotFound,
				Op:      op,
				Message: "ongoing outage not found",
			}
		}
		return nil
	}

	return utils.WrapRepoError(op, err, false, r.logger)
}

const ongoingOutage = `SELECT ` + outageColumns + ` FROM power_outages WHERE is_ongoing LIMIT 1`

// GetOngoing returns nil, nil when no outage is open.
func (r *Repository) GetOngoing(ctx context.Context) (*Outage, error) {
	const op string = "repo.outage.get_ongoing"

	o, err := scanOutage(r.db.QueryRow(ctx, ongoingOutage))
	if err == nil {
		return &o, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return nil, utils.WrapRepoError(op, err, false, r.logger)
}

const listOutages = `
SELECT ` + outageColumns + `
FROM power_outages
WHERE started_at >= $1 AND ($2::boolean = false OR is_ongoing)
ORDER BY started_at DESC
LIMIT $3 OFFSET $4`

const countOutages = `
SELECT count(*)
FROM power_outages
WHERE started_at >= $1 AND ($2::boolean = false OR is_ongoing)`

// List returns one page of outages, newest first, and the total matching the filter.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Outage, int64, error) {
	const op string = "repo.outage.list"

	since := utils.ToPgTimestamptz(f.Since)

	var total int64
	if err := r.db.QueryRow(ctx, countOutages, since, f.OngoingOnly).Scan(&total); err != nil {
		return nil, 0, utils.WrapRepoError(op, err, false, r.logger)
	}

	rows, err := r.db.Query(ctx, listOutages, since, f.OngoingOnly, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	out := make([]Outage, 0, f.Limit)
	for rows.Next() {
		o, err := scanOutage(rows)
		if err != nil {
			return nil, 0, utils.WrapRepoError(op, err, false, r.logger)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, utils.WrapRepoError(op, err, false, r.logger)
	}

	return out, total, nil
}

const outageStats = `
SELECT count(*), avg(duration_seconds)::float8
FROM power_outages
WHERE started_at >= $1`

func (r *Repository) Stats(ctx context.Context, since time.Time) (Stats, error) {
	const op string = "repo.outage.stats"

	var (
		s   Stats
		avg pgtype.Float8
	)
	err := r.db.QueryRow(ctx, outageStats, utils.ToPgTimestamptz(since)).Scan(&s.Total, &avg)
	if err != nil {
		return Stats{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	if avg.Valid {
		v := avg.Float64
		s.AvgDurationSeconds = &v
	}
	return s, nil
}
