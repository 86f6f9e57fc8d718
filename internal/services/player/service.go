package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
	"github.com/mcoot/playerbase/internal/storage"
)

// Service validates player commands and queries and delegates persistence
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new player Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns one page of the players matching the query
func (s *Service) List(ctx context.Context, q query.Query, page query.Page) ([]*model.Player, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	order, err := query.ParseOrder(string(q.Order))
	if err != nil {
		return nil, err
	}
	q.Order = order

	players, err := s.storage.FindPlayers(ctx, q, &page)
	if err != nil {
		return nil, s.storageError("list players", err)
	}
	return players, nil
}

// Count returns how many players match the filter
func (s *Service) Count(ctx context.Context, f query.Filter) (int, error) {
	n, err := s.storage.CountMatchingPlayers(ctx, f)
	if err != nil {
		return 0, s.storageError("count players", err)
	}
	return n, nil
}

// Total returns the number of stored players regardless of filters
func (s *Service) Total(ctx context.Context) (int, error) {
	n, err := s.storage.CountPlayers(ctx)
	if err != nil {
		return 0, s.storageError("count all players", err)
	}
	return n, nil
}

// Create validates a candidate and stores it as a new player
func (s *Service) Create(ctx context.Context, candidate model.PlayerPatch) (*model.Player, error) {
	p, err := ValidateForCreate(candidate)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SavePlayer(ctx, p); err != nil {
		return nil, s.storageError("create player", err)
	}

	s.logger.Info("player created",
		slog.Int64("player_id", int64(p.ID)),
		slog.String("name", p.Name),
		slog.Int("level", p.Level),
	)
	return p, nil
}

// Get returns the player with the given id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	p, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, s.storageError("get player", err)
	}
	return p, nil
}

// Update applies a partial patch to an existing player
func (s *Service) Update(ctx context.Context, id model.PlayerID, patch model.PlayerPatch) (*model.Player, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := ValidateForUpdate(existing, patch)
	if err != nil {
		return nil, err
	}

	if err := s.storage.UpdatePlayer(ctx, updated); err != nil {
		return nil, s.storageError("update player", err)
	}

	s.logger.Info("player updated",
		slog.Int64("player_id", int64(updated.ID)),
		slog.Int("level", updated.Level),
	)
	return updated, nil
}

// Delete removes a player permanently
func (s *Service) Delete(ctx context.Context, id model.PlayerID) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	exists, err := s.storage.PlayerExists(ctx, id)
	if err != nil {
		return s.storageError("check player", err)
	}
	if !exists {
		return model.ErrPlayerNotFound
	}

	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return s.storageError("delete player", err)
	}

	s.logger.Info("player deleted", slog.Int64("player_id", int64(id)))
	return nil
}

// storageError passes domain errors through and marks everything else as a
// storage failure
func (s *Service) storageError(op string, err error) error {
	if errors.Is(err, model.ErrPlayerNotFound) || errors.Is(err, model.ErrInvalidInput) {
		return err
	}
	s.logger.Error("storage failure", slog.String("op", op), slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorageUnavailable, err)
}
