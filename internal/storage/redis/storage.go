package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
	"github.com/mcoot/playerbase/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each player is a JSON string; a sorted set indexes the ids.
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// record is the JSON form of a stored player
type record struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Race           string    `json:"race"`
	Profession     string    `json:"profession"`
	Birthday       time.Time `json:"birthday"`
	Banned         *bool     `json:"banned,omitempty"`
	Experience     int       `json:"experience"`
	Level          int       `json:"level"`
	UntilNextLevel int       `json:"until_next_level"`
}

func toRecord(p *model.Player) record {
	return record{
		ID:             int64(p.ID),
		Name:           p.Name,
		Title:          p.Title,
		Race:           string(p.Race),
		Profession:     string(p.Profession),
		Birthday:       p.Birthday.UTC(),
		Banned:         p.Banned,
		Experience:     p.Experience,
		Level:          p.Level,
		UntilNextLevel: p.UntilNextLevel,
	}
}

func (r record) toModel() *model.Player {
	return &model.Player{
		ID:             model.PlayerID(r.ID),
		Name:           r.Name,
		Title:          r.Title,
		Race:           model.Race(r.Race),
		Profession:     model.Profession(r.Profession),
		Birthday:       r.Birthday,
		Banned:         r.Banned,
		Experience:     r.Experience,
		Level:          r.Level,
		UntilNextLevel: r.UntilNextLevel,
	}
}

// advanceSequence raises the id sequence to at least ARGV[1]
var advanceSequence = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current < tonumber(ARGV[1]) then
	redis.call("SET", KEYS[1], ARGV[1])
end
return 0
`)

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	if player.ID == 0 {
		id, err := s.client.Incr(ctx, s.keys.playerSequence()).Result()
		if err != nil {
			return err
		}
		player.ID = model.PlayerID(id)
	} else {
		seq := []string{s.keys.playerSequence()}
		if err := advanceSequence.Run(ctx, s.client, seq, int64(player.ID)).Err(); err != nil {
			return err
		}
	}

	data, err := json.Marshal(toRecord(player))
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.player(player.ID), data, 0)
	pipe.ZAdd(ctx, s.keys.playerIndex(), redis.Z{Score: float64(player.ID), Member: strconv.FormatInt(int64(player.ID), 10)})
	_, err = pipe.Exec(ctx)
	return err
}

// replacePlayer overwrites KEYS[1] only while it exists
var replacePlayer = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(toRecord(player))
	if err != nil {
		return err
	}
	replaced, err := replacePlayer.Run(ctx, s.client, []string{s.keys.player(player.ID)}, data).Int()
	if err != nil {
		return err
	}
	if replaced == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, s.keys.player(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r.toModel(), nil
}

func (s *Storage) PlayerExists(ctx context.Context, id model.PlayerID) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keys.player(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.player(id))
	pipe.ZRem(ctx, s.keys.playerIndex(), strconv.FormatInt(int64(id), 10))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, s.keys.playerIndex()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// FindPlayers loads every indexed player and evaluates the query in memory
func (s *Storage) FindPlayers(ctx context.Context, q query.Query, page *query.Page) ([]*model.Player, error) {
	players, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(players, q, page), nil
}

func (s *Storage) CountMatchingPlayers(ctx context.Context, f query.Filter) (int, error) {
	players, err := s.loadAll(ctx)
	if err != nil {
		return 0, err
	}
	return query.Count(players, f), nil
}

func (s *Storage) loadAll(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.ZRange(ctx, s.keys.playerIndex(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	playerKeys := make([]string, len(ids))
	for i, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, err
		}
		playerKeys[i] = s.keys.player(model.PlayerID(n))
	}

	values, err := s.client.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Deleted between ZRANGE and MGET
		}
		var r record
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, err
		}
		players = append(players, r.toModel())
	}
	return players, nil
}
