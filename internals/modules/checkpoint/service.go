package checkpoint

import (
	"context"
	"strings"

	"powermon/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type repository interface {
	Create(ctx context.Context, cmd CreateCheckpointCmd) (Checkpoint, error)
	Upsert(ctx context.Context, cmd CreateCheckpointCmd) (Checkpoint, error)
	GetByID(ctx context.Context, id uuid.UUID) (Checkpoint, error)
	List(ctx context.Context, activeOnly bool) ([]Checkpoint, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (Checkpoint, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatusCleaner drops cached state of a checkpoint that stops being monitored.
type StatusCleaner interface {
	DelStatus(ctx context.Context, checkpointID uuid.UUID) error
}

type Service struct {
	repo   repository
	cache  StatusCleaner // nil when redis is disabled
	logger *zerolog.Logger
}

func NewService(repo repository, cache StatusCleaner, logger *zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateCheckpointCmd) (Checkpoint, error) {
	const op string = "service.checkpoint.create"

	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Address = strings.TrimSpace(cmd.Address)
	if cmd.Name == "" || cmd.Address == "" {
		return Checkpoint{}, &apperror.Error{
			Kind:    apperror.InvalidInput,
			Op:      op,
			Message: "name and ip_address are required",
		}
	}

	c, err := s.repo.Create(ctx, cmd)
	if err != nil {
		return Checkpoint{}, err
	}

	s.logger.Info().
		Str("checkpoint_id", c.ID.String()).
		Str("name", c.Name).
		Str("address", c.Address).
		Msg("checkpoint added")
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Checkpoint, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Checkpoint, error) {
	return s.repo.List(ctx, activeOnly)
}

// ListActive is the registry view the monitoring cycle reads. Any failure is
// reported as a registry error so the cycle can abort without evaluating outages.
func (s *Service) ListActive(ctx context.Context) ([]Checkpoint, error) {
	const op string = "service.checkpoint.list_active"

	list, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, &apperror.Error{
			Kind:    apperror.Registry,
			Op:      op,
			Message: "could not enumerate checkpoints",
			Err:     err,
		}
	}
	return list, nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (Checkpoint, error) {
	c, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return Checkpoint{}, err
	}

	if !active {
		s.dropStatus(ctx, id)
	}

	s.logger.Info().
		Str("checkpoint_id", id.String()).
		Bool("active", active).
		Msg("checkpoint status changed")
	return c, nil
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropStatus(ctx, id)

	s.logger.Info().Str("checkpoint_id", id.String()).Msg("checkpoint removed")
	return nil
}

func (s *Service) dropStatus(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DelStatus(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("checkpoint_id", id.String()).Msg("failed to clear cached status")
	}
}

// Seed upserts every entry by name. It stops at the first failure.
func (s *Service) Seed(ctx context.Context, entries []SeedEntry) (int, error) {
	for i, e := range entries {
		if _, err := s.repo.Upsert(ctx, e.toCmd()); err != nil {
			return i, err
		}
	}

	s.logger.Info().Int("count", len(entries)).Msg("checkpoints seeded")
	return len(entries), nil
}
