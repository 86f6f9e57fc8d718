package storage

import (
	"context"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
)

// Storage defines the interface for player persistence.
// Each call is atomic for a single record.
type Storage interface {
	// SavePlayer inserts the player when its ID is zero, assigning a new ID,
	// and replaces the stored record otherwise
	SavePlayer(ctx context.Context, player *model.Player) error
	// UpdatePlayer replaces an existing record and returns
	// model.ErrPlayerNotFound when the player is gone
	UpdatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	PlayerExists(ctx context.Context, id model.PlayerID) (bool, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// CountPlayers returns the total number of stored players
	CountPlayers(ctx context.Context) (int, error)

	// FindPlayers returns the players matching the query in its sort order.
	// A nil page returns every match.
	FindPlayers(ctx context.Context, q query.Query, page *query.Page) ([]*model.Player, error)
	CountMatchingPlayers(ctx context.Context, f query.Filter) (int, error)

	Close() error
}
