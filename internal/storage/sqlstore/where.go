package sqlstore

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mcoot/playerbase/internal/query"
)

// condition is a SQL WHERE fragment with its positional parameters
type condition struct {
	Clause string
	Params []any
}

// buildWhere translates a filter into a conjunction of SQL conditions.
// It mirrors query.Filter.Predicate so every backend returns the same rows.
func buildWhere(f query.Filter) condition {
	var clauses []string
	var params []any

	add := func(clause string, args ...any) {
		clauses = append(clauses, clause)
		params = append(params, args...)
	}

	if f.Name != nil {
		add(`name_folded LIKE ? ESCAPE '\'`, likePattern(*f.Name))
	}
	if f.Title != nil {
		add(`title_folded LIKE ? ESCAPE '\'`, likePattern(*f.Title))
	}
	if f.Race != nil {
		add("race = ?", string(*f.Race))
	}
	if f.Profession != nil {
		add("profession = ?", string(*f.Profession))
	}

	lower, upper := f.BirthdayBounds()
	switch {
	case lower != nil && upper != nil:
		add("birthday BETWEEN ? AND ?", toMillis(*lower), toMillis(*upper))
	case lower != nil:
		add("birthday >= ?", toMillis(*lower))
	case upper != nil:
		add("birthday <= ?", toMillis(*upper))
	}

	if f.Banned != nil {
		add("banned = ?", *f.Banned)
	}

	add("experience BETWEEN ? AND ?", f.MinExperience, f.MaxExperience)
	add("level BETWEEN ? AND ?", f.MinLevel, f.MaxLevel)

	return condition{
		Clause: strings.Join(clauses, " AND "),
		Params: params,
	}
}

// orderBy returns the ORDER BY expression for a sort key, ties broken by id
func orderBy(o query.Order, d Dialect) string {
	switch o {
	case query.OrderName:
		return "name COLLATE " + d.nameCollation + ", id"
	case query.OrderExperience:
		return "experience, id"
	case query.OrderBirthday:
		return "birthday, id"
	case query.OrderLevel:
		return "level, id"
	default:
		return "id"
	}
}

// fold applies the same Unicode case folding as the in-memory predicate
func fold(s string) string {
	return cases.Fold().String(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring LIKE pattern over folded text
func likePattern(needle string) string {
	return "%" + likeEscaper.Replace(fold(needle)) + "%"
}
