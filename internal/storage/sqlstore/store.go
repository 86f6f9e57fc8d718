// Package sqlstore provides a database/sql player store for SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
	"github.com/mcoot/playerbase/internal/storage"
	"github.com/mcoot/playerbase/internal/storage/sqlstore/migrations"
)

// Store persists players in a SQL database
type Store struct {
	sqlDB   *sql.DB
	dialect Dialect
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

const playerColumns = `id, name, title, race, profession, birthday, banned, experience, level, until_next_level`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens a SQLite player store and applies embedded migrations
func OpenSQLite(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return open(SQLite, dsn)
}

// OpenPostgres opens a PostgreSQL player store and applies embedded migrations
func OpenPostgres(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	return open(Postgres, dsn)
}

func open(d Dialect, dsn string) (*Store, error) {
	sqlDB, err := sql.Open(d.Name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d.Name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s db: %w", d.Name, err)
	}
	store, err := New(ctx, sqlDB, d)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an open database handle and applies migrations
func New(ctx context.Context, sqlDB *sql.DB, d Dialect) (*Store, error) {
	if err := ApplyMigrations(ctx, sqlDB, d, migrations.FS); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, dialect: d}, nil
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// playerArgs lists the column values of a player in insert order, id excluded
func playerArgs(player *model.Player) []any {
	var banned sql.NullBool
	if player.Banned != nil {
		banned = sql.NullBool{Bool: *player.Banned, Valid: true}
	}
	return []any{
		player.Name,
		fold(player.Name),
		player.Title,
		fold(player.Title),
		string(player.Race),
		string(player.Profession),
		toMillis(player.Birthday),
		banned,
		player.Experience,
		player.Level,
		player.UntilNextLevel,
	}
}

func (s *Store) SavePlayer(ctx context.Context, player *model.Player) error {
	args := playerArgs(player)

	if player.ID == 0 {
		var id int64
		err := s.sqlDB.QueryRowContext(ctx, s.dialect.Rebind(
			`INSERT INTO players (
			   name, name_folded, title, title_folded, race, profession,
			   birthday, banned, experience, level, until_next_level
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 RETURNING id`),
			args...,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		player.ID = model.PlayerID(id)
		return nil
	}

	_, err := s.sqlDB.ExecContext(ctx, s.dialect.Rebind(
		`INSERT INTO players (
		   id, name, name_folded, title, title_folded, race, profession,
		   birthday, banned, experience, level, until_next_level
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   name_folded = excluded.name_folded,
		   title = excluded.title,
		   title_folded = excluded.title_folded,
		   race = excluded.race,
		   profession = excluded.profession,
		   birthday = excluded.birthday,
		   banned = excluded.banned,
		   experience = excluded.experience,
		   level = excluded.level,
		   until_next_level = excluded.until_next_level`),
		append([]any{int64(player.ID)}, args...)...,
	)
	if err != nil {
		return fmt.Errorf("upsert player %d: %w", player.ID, err)
	}
	if s.dialect.syncSequence != "" {
		if _, err := s.sqlDB.ExecContext(ctx, s.dialect.syncSequence); err != nil {
			return fmt.Errorf("sync player id sequence: %w", err)
		}
	}
	return nil
}

func (s *Store) UpdatePlayer(ctx context.Context, player *model.Player) error {
	res, err := s.sqlDB.ExecContext(ctx, s.dialect.Rebind(
		`UPDATE players SET
		   name = ?, name_folded = ?, title = ?, title_folded = ?, race = ?, profession = ?,
		   birthday = ?, banned = ?, experience = ?, level = ?, until_next_level = ?
		 WHERE id = ?`),
		append(playerArgs(player), int64(player.ID))...,
	)
	if err != nil {
		return fmt.Errorf("update player %d: %w", player.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player %d: %w", player.ID, err)
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		s.dialect.Rebind("SELECT "+playerColumns+" FROM players WHERE id = ?"),
		int64(id),
	)
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return player, nil
}

func (s *Store) PlayerExists(ctx context.Context, id model.PlayerID) (bool, error) {
	var found int
	err := s.sqlDB.QueryRowContext(ctx, s.dialect.Rebind("SELECT 1 FROM players WHERE id = ?"), int64(id)).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check player %d: %w", id, err)
	}
	return true, nil
}

func (s *Store) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if _, err := s.sqlDB.ExecContext(ctx, s.dialect.Rebind("DELETE FROM players WHERE id = ?"), int64(id)); err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	return nil
}

func (s *Store) CountPlayers(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

func (s *Store) FindPlayers(ctx context.Context, q query.Query, page *query.Page) ([]*model.Player, error) {
	where := buildWhere(q.Filter)
	stmt := "SELECT " + playerColumns + " FROM players WHERE " + where.Clause +
		" ORDER BY " + orderBy(q.Order, s.dialect)
	params := where.Params
	if page != nil {
		stmt += " LIMIT ? OFFSET ?"
		params = append(params, page.Size, page.Offset())
	}

	rows, err := s.sqlDB.QueryContext(ctx, s.dialect.Rebind(stmt), params...)
	if err != nil {
		return nil, fmt.Errorf("find players: %w", err)
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

func (s *Store) CountMatchingPlayers(ctx context.Context, f query.Filter) (int, error) {
	where := buildWhere(f)
	var n int
	err := s.sqlDB.QueryRowContext(ctx,
		s.dialect.Rebind("SELECT COUNT(*) FROM players WHERE "+where.Clause),
		where.Params...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count matching players: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		id         int64
		race       string
		profession string
		birthday   int64
		banned     sql.NullBool
		p          model.Player
	)
	if err := row.Scan(
		&id,
		&p.Name,
		&p.Title,
		&race,
		&profession,
		&birthday,
		&banned,
		&p.Experience,
		&p.Level,
		&p.UntilNextLevel,
	); err != nil {
		return nil, err
	}
	p.ID = model.PlayerID(id)
	p.Race = model.Race(race)
	p.Profession = model.Profession(profession)
	p.Birthday = fromMillis(birthday)
	if banned.Valid {
		b := banned.Bool
		p.Banned = &b
	}
	return &p, nil
}
