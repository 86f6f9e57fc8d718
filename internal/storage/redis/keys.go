package redis

import (
	"fmt"

	"github.com/mcoot/playerbase/internal/model"
)

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

// player returns the key holding a player's JSON record
func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", k.prefix, id)
}

// playerIndex returns the key of the ZSET of player ids, scored by id
func (k keys) playerIndex() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// playerSequence returns the key of the id counter
func (k keys) playerSequence() string {
	return fmt.Sprintf("%s:seq:player", k.prefix)
}
