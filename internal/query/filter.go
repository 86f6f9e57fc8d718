// Package query builds player filters, sort orders and pages, and evaluates
// them against in-memory player collections.
package query

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/mcoot/playerbase/internal/model"
)

// MaxBound is the default upper bound for experience and level ranges
const MaxBound = math.MaxInt32

// Filter holds the optional constraints of a player listing.
// Nil fields impose no constraint. The experience and level ranges always apply.
type Filter struct {
	Name       *string
	Title      *string
	Race       *model.Race
	Profession *model.Profession
	After      *time.Time
	Before     *time.Time
	Banned     *bool

	MinExperience int
	MaxExperience int
	MinLevel      int
	MaxLevel      int
}

// DefaultFilter returns a filter that matches every player
func DefaultFilter() Filter {
	return Filter{
		MinExperience: 0,
		MaxExperience: MaxBound,
		MinLevel:      0,
		MaxLevel:      MaxBound,
	}
}

// BirthdayBounds resolves After/Before into the bounds that are actually
// applied. When both are set and After is not strictly before Before, no
// birthday constraint applies at all.
func (f Filter) BirthdayBounds() (lower, upper *time.Time) {
	switch {
	case f.After != nil && f.Before != nil:
		if f.After.Before(*f.Before) {
			return f.After, f.Before
		}
		return nil, nil
	case f.After != nil:
		return f.After, nil
	case f.Before != nil:
		return nil, f.Before
	default:
		return nil, nil
	}
}

// Predicate reports whether a player satisfies a constraint
type Predicate func(p *model.Player) bool

// And combines predicates with logical AND. An empty list matches everything.
func And(preds ...Predicate) Predicate {
	return func(p *model.Player) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Predicate compiles the filter into a single predicate
func (f Filter) Predicate() Predicate {
	var preds []Predicate

	if f.Name != nil {
		preds = append(preds, containsFold(*f.Name, func(p *model.Player) string { return p.Name }))
	}
	if f.Title != nil {
		preds = append(preds, containsFold(*f.Title, func(p *model.Player) string { return p.Title }))
	}
	if f.Race != nil {
		race := *f.Race
		preds = append(preds, func(p *model.Player) bool { return p.Race == race })
	}
	if f.Profession != nil {
		profession := *f.Profession
		preds = append(preds, func(p *model.Player) bool { return p.Profession == profession })
	}

	lower, upper := f.BirthdayBounds()
	if lower != nil {
		after := *lower
		preds = append(preds, func(p *model.Player) bool { return !p.Birthday.Before(after) })
	}
	if upper != nil {
		before := *upper
		preds = append(preds, func(p *model.Player) bool { return !p.Birthday.After(before) })
	}

	if f.Banned != nil {
		banned := *f.Banned
		preds = append(preds, func(p *model.Player) bool { return p.Banned != nil && *p.Banned == banned })
	}

	minExp, maxExp := f.MinExperience, f.MaxExperience
	preds = append(preds, func(p *model.Player) bool { return p.Experience >= minExp && p.Experience <= maxExp })
	minLevel, maxLevel := f.MinLevel, f.MaxLevel
	preds = append(preds, func(p *model.Player) bool { return p.Level >= minLevel && p.Level <= maxLevel })

	return And(preds...)
}

// containsFold matches players whose field contains needle, ignoring case
func containsFold(needle string, field func(p *model.Player) string) Predicate {
	caser := cases.Fold()
	folded := caser.String(needle)
	return func(p *model.Player) bool {
		return strings.Contains(caser.String(field(p)), folded)
	}
}
