// Package seed populates an empty roster with a fixed set of demo players.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/services/player"
)

type entry struct {
	name       string
	title      string
	race       model.Race
	profession model.Profession
	birthday   string
	banned     bool
	experience int
}

var roster = []entry{
	{"Ниус", "Высокий", model.RaceHobbit, model.ProfessionRogue, "2010-10-12", false, 58_347},
	{"Никрашш", "НайтВульф", model.RaceOrc, model.ProfessionWarrior, "2010-02-14", false, 174_403},
	{"Эззэссэль", "шипящая", model.RaceDwarf, model.ProfessionCleric, "2006-02-28", true, 804_685},
	{"Белан", "Тсе Раа", model.RaceDwarf, model.ProfessionDruid, "2008-02-25", true, 44_553},
	{"Элеонора", "Бабушка", model.RaceHuman, model.ProfessionSorcerer, "2006-01-07", true, 63_986},
	{"Эман", "Ухастый Летун", model.RaceElf, model.ProfessionWarlock, "2004-06-17", false, 163_743},
	{"Талан", "Кузнец", model.RaceDwarf, model.ProfessionWarrior, "2005-05-15", false, 68_950},
	{"Арилан", "Благотворитель", model.RaceElf, model.ProfessionPaladin, "2006-08-10", false, 114_982},
	{"Деракт", "Самый сильный", model.RaceGiant, model.ProfessionWarrior, "2010-06-22", false, 156_630},
	{"Архилл", "Смертоносный", model.RaceTroll, model.ProfessionNazgul, "2005-01-12", false, 76_010},
	{"Эндарион", "Маэстро", model.RaceElf, model.ProfessionDruid, "2008-01-08", false, 103_734},
	{"Фаэрон", "Повелитель", model.RaceGiant, model.ProfessionCleric, "2009-07-14", true, 3_089},
}

// Roster returns the demo players as create candidates
func Roster() []model.PlayerPatch {
	patches := make([]model.PlayerPatch, 0, len(roster))
	for _, e := range roster {
		e := e // per-iteration copy: the patch fields point into it
		birthday, err := time.Parse(time.DateOnly, e.birthday)
		if err != nil {
			panic(fmt.Sprintf("seed: bad birthday %q: %v", e.birthday, err))
		}
		patches = append(patches, model.PlayerPatch{
			Name:       &e.name,
			Title:      &e.title,
			Race:       &e.race,
			Profession: &e.profession,
			Birthday:   &birthday,
			Banned:     &e.banned,
			Experience: &e.experience,
		})
	}
	return patches
}

// Load creates the demo roster through the service when the store is empty.
// It returns the number of players created.
func Load(ctx context.Context, svc *player.Service, logger *slog.Logger) (int, error) {
	total, err := svc.Total(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		logger.Info("roster already populated, skipping seed", slog.Int("players", total))
		return 0, nil
	}

	created := 0
	for _, candidate := range Roster() {
		if _, err := svc.Create(ctx, candidate); err != nil {
			return created, fmt.Errorf("seed player %q: %w", *candidate.Name, err)
		}
		created++
	}

	logger.Info("seeded demo roster", slog.Int("players", created))
	return created, nil
}
