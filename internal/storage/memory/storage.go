package memory

import (
	"context"
	"sync"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
	"github.com/mcoot/playerbase/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players map[model.PlayerID]*model.Player
	nextID  model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.Player),
		nextID:  1,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// SavePlayer stores a copy of the player. Reads return copies as well.
func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player.ID == 0 {
		player.ID = s.nextID
		s.nextID++
	} else if player.ID >= s.nextID {
		s.nextID = player.ID + 1
	}
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; !ok {
		return model.ErrPlayerNotFound
	}
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) PlayerExists(ctx context.Context, id model.PlayerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[id]
	return ok, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}

func (s *Storage) FindPlayers(ctx context.Context, q query.Query, page *query.Page) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := query.Apply(s.snapshot(), q, page)
	result := make([]*model.Player, len(matches))
	for i, p := range matches {
		result[i] = p.Clone()
	}
	return result, nil
}

func (s *Storage) CountMatchingPlayers(ctx context.Context, f query.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Count(s.snapshot(), f), nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// snapshot lists the stored players; callers must hold the lock
func (s *Storage) snapshot() []*model.Player {
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	return players
}
