package player

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mcoot/playerbase/internal/model"
)

// Field bounds. Birthday years are calendar years in UTC.
const (
	MaxNameLength  = 12
	MaxTitleLength = 30
	MinBirthYear   = 2000
	MaxBirthYear   = 3000
	MaxExperience  = 10_000_000
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidInput}, args...)...)
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLength {
		return invalid("name must be 1-%d characters", MaxNameLength)
	}
	return nil
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < 1 || n > MaxTitleLength {
		return invalid("title must be 1-%d characters", MaxTitleLength)
	}
	return nil
}

func validateRace(race model.Race) error {
	_, err := model.ParseRace(string(race))
	return err
}

func validateProfession(profession model.Profession) error {
	_, err := model.ParseProfession(string(profession))
	return err
}

func validateBirthday(birthday time.Time) error {
	if y := birthday.UTC().Year(); y < MinBirthYear || y > MaxBirthYear {
		return invalid("birthday year must be within %d-%d", MinBirthYear, MaxBirthYear)
	}
	return nil
}

func validateExperience(experience int) error {
	if experience < 0 || experience > MaxExperience {
		return invalid("experience must be within 0-%d", MaxExperience)
	}
	return nil
}

// ValidateForCreate checks a create candidate and builds the new player with
// its derived level fields. Every field except banned is required.
func ValidateForCreate(c model.PlayerPatch) (*model.Player, error) {
	switch {
	case c.Name == nil:
		return nil, invalid("name is required")
	case c.Title == nil:
		return nil, invalid("title is required")
	case c.Race == nil:
		return nil, invalid("race is required")
	case c.Profession == nil:
		return nil, invalid("profession is required")
	case c.Birthday == nil:
		return nil, invalid("birthday is required")
	case c.Experience == nil:
		return nil, invalid("experience is required")
	}

	if err := validateName(*c.Name); err != nil {
		return nil, err
	}
	if err := validateTitle(*c.Title); err != nil {
		return nil, err
	}
	if err := validateRace(*c.Race); err != nil {
		return nil, err
	}
	if err := validateProfession(*c.Profession); err != nil {
		return nil, err
	}
	if err := validateBirthday(*c.Birthday); err != nil {
		return nil, err
	}
	if err := validateExperience(*c.Experience); err != nil {
		return nil, err
	}

	p := &model.Player{
		Name:       *c.Name,
		Title:      *c.Title,
		Race:       *c.Race,
		Profession: *c.Profession,
		Birthday:   c.Birthday.UTC(),
	}
	if c.Banned != nil {
		banned := *c.Banned
		p.Banned = &banned
	}
	p.SetExperience(*c.Experience)
	return p, nil
}

// ValidateForUpdate applies a partial patch to a copy of existing. Absent
// fields are kept; any invalid present field rejects the whole patch and
// existing is never modified.
func ValidateForUpdate(existing *model.Player, patch model.PlayerPatch) (*model.Player, error) {
	updated := existing.Clone()

	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		updated.Name = *patch.Name
	}
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
		updated.Title = *patch.Title
	}
	if patch.Race != nil {
		if err := validateRace(*patch.Race); err != nil {
			return nil, err
		}
		updated.Race = *patch.Race
	}
	if patch.Profession != nil {
		if err := validateProfession(*patch.Profession); err != nil {
			return nil, err
		}
		updated.Profession = *patch.Profession
	}
	if patch.Birthday != nil {
		if err := validateBirthday(*patch.Birthday); err != nil {
			return nil, err
		}
		updated.Birthday = patch.Birthday.UTC()
	}
	if patch.Banned != nil {
		banned := *patch.Banned
		updated.Banned = &banned
	}
	if patch.Experience != nil {
		if err := validateExperience(*patch.Experience); err != nil {
			return nil, err
		}
		updated.SetExperience(*patch.Experience)
	}

	return updated, nil
}

// ValidateID rejects non-positive identifiers
func ValidateID(id model.PlayerID) error {
	if id <= 0 {
		return invalid("id must be a positive integer")
	}
	return nil
}
