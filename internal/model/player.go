package model

import (
	"fmt"
	"time"
)

// PlayerID uniquely identifies a player. Storage assigns it on first save.
type PlayerID int64

// Race is one of the fixed set of player races
type Race string

const (
	RaceHuman  Race = "HUMAN"
	RaceDwarf  Race = "DWARF"
	RaceElf    Race = "ELF"
	RaceGiant  Race = "GIANT"
	RaceOrc    Race = "ORC"
	RaceTroll  Race = "TROLL"
	RaceHobbit Race = "HOBBIT"
)

// Races lists every valid race
var Races = []Race{RaceHuman, RaceDwarf, RaceElf, RaceGiant, RaceOrc, RaceTroll, RaceHobbit}

// ParseRace converts a string to a Race, rejecting unknown values
func ParseRace(s string) (Race, error) {
	for _, r := range Races {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown race %q", ErrInvalidInput, s)
}

// Profession is one of the fixed set of player professions
type Profession string

const (
	ProfessionWarrior  Profession = "WARRIOR"
	ProfessionRogue    Profession = "ROGUE"
	ProfessionSorcerer Profession = "SORCERER"
	ProfessionCleric   Profession = "CLERIC"
	ProfessionPaladin  Profession = "PALADIN"
	ProfessionNazgul   Profession = "NAZGUL"
	ProfessionWarlock  Profession = "WARLOCK"
	ProfessionDruid    Profession = "DRUID"
)

// Professions lists every valid profession
var Professions = []Profession{
	ProfessionWarrior, ProfessionRogue, ProfessionSorcerer, ProfessionCleric,
	ProfessionPaladin, ProfessionNazgul, ProfessionWarlock, ProfessionDruid,
}

// ParseProfession converts a string to a Profession, rejecting unknown values
func ParseProfession(s string) (Profession, error) {
	for _, p := range Professions {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown profession %q", ErrInvalidInput, s)
}

// Player is a game character in the roster
type Player struct {
	ID         PlayerID
	Name       string
	Title      string
	Race       Race
	Profession Profession
	Birthday   time.Time
	Banned     *bool // nil until explicitly set
	Experience int

	// Derived from Experience, see DeriveLevel
	Level          int
	UntilNextLevel int
}

// SetExperience updates experience and recomputes the derived level fields
func (p *Player) SetExperience(experience int) {
	p.Experience = experience
	p.Level, p.UntilNextLevel = DeriveLevel(experience)
}

// IsBanned reports whether the banned flag is set and true
func (p *Player) IsBanned() bool {
	return p.Banned != nil && *p.Banned
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	c := *p
	if p.Banned != nil {
		b := *p.Banned
		c.Banned = &b
	}
	return &c
}

// PlayerPatch carries optional player fields. A nil field is absent.
// It is used both as a create candidate and as a partial update.
// Level fields are deliberately absent: they are always derived.
type PlayerPatch struct {
	Name       *string
	Title      *string
	Race       *Race
	Profession *Profession
	Birthday   *time.Time
	Banned     *bool
	Experience *int
}
