package sqlstore

import (
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect captures the differences between the supported SQL databases
type Dialect struct {
	// Name is the database/sql driver name
	Name string
	// MigrationRoot is the directory of the embedded migrations
	MigrationRoot string
	// numbered switches ? placeholders to $1, $2, ...
	numbered bool
	// nameCollation makes ORDER BY name compare bytes
	nameCollation string
	// syncSequence moves the id sequence past explicitly written ids.
	// Empty when the database tracks this itself.
	syncSequence string
}

var (
	SQLite = Dialect{
		Name:          "sqlite",
		MigrationRoot: "sqlite",
		nameCollation: "BINARY",
	}
	Postgres = Dialect{
		Name:          "postgres",
		MigrationRoot: "postgres",
		numbered:      true,
		nameCollation: `"C"`,
		syncSequence:  `SELECT setval(pg_get_serial_sequence('players', 'id'), (SELECT MAX(id) FROM players))`,
	}
)

// Rebind rewrites ? placeholders into the dialect's placeholder syntax
func (d Dialect) Rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
