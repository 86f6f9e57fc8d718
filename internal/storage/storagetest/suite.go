// Package storagetest provides a behavioural test suite shared by every
// storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
	"github.com/mcoot/playerbase/internal/storage"
)

// Suite exercises the storage contract. Backends embed it and set NewStorage.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

func ptr[T any](v T) *T { return &v }

// NewPlayer builds a valid player with derived fields set
func NewPlayer(name string, race model.Race, year int, banned *bool, experience int) *model.Player {
	p := &model.Player{
		Name:       name,
		Title:      name + " the Bold",
		Race:       race,
		Profession: model.ProfessionWarrior,
		Birthday:   time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC),
		Banned:     banned,
	}
	p.SetExperience(experience)
	return p
}

func (s *Suite) save(p *model.Player) *model.Player {
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, p))
	return p
}

func (s *Suite) TestSaveAssignsIncreasingIDs() {
	a := s.save(NewPlayer("Alice", model.RaceElf, 2001, nil, 10))
	b := s.save(NewPlayer("Bob", model.RaceOrc, 2002, nil, 20))

	s.Positive(int64(a.ID))
	s.Greater(b.ID, a.ID)
}

func (s *Suite) TestSaveAndGetPlayer() {
	banned := true
	p := s.save(NewPlayer("Alice", model.RaceElf, 2001, &banned, 100))

	got, err := s.Storage.GetPlayer(s.Ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)
	s.Equal("Alice", got.Name)
	s.Equal("Alice the Bold", got.Title)
	s.Equal(model.RaceElf, got.Race)
	s.Equal(model.ProfessionWarrior, got.Profession)
	s.True(p.Birthday.Equal(got.Birthday))
	s.Require().NotNil(got.Banned)
	s.True(*got.Banned)
	s.Equal(100, got.Experience)
	s.Equal(1, got.Level)
	s.Equal(200, got.UntilNextLevel)
}

func (s *Suite) TestNilBannedRoundTrips() {
	p := s.save(NewPlayer("Alice", model.RaceElf, 2001, nil, 10))

	got, err := s.Storage.GetPlayer(s.Ctx, p.ID)
	s.Require().NoError(err)
	s.Nil(got.Banned)
}

func (s *Suite) TestSaveExistingReplaces() {
	p := s.save(NewPlayer("Alice", model.RaceElf, 2001, nil, 10))

	p.Name = "Alicia"
	p.SetExperience(300)
	s.save(p)

	got, err := s.Storage.GetPlayer(s.Ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Alicia", got.Name)
	s.Equal(2, got.Level)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestPlayerExists() {
	p := s.save(NewPlayer("Alice", model.RaceElf, 2001, nil, 10))

	exists, err := s.Storage.PlayerExists(s.Ctx, p.ID)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.Storage.PlayerExists(s.Ctx, p.ID+100)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestDeletePlayer() {
	p := s.save(NewPlayer("Alice", model.RaceElf, 2001, nil, 10))

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, p.ID))

	_, err := s.Storage.GetPlayer(s.Ctx, p.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *Suite) TestUpdatePlayerReplacesExisting() {
	p := s.save(NewPlayer("Alice", model.RaceElf, 2001, nil, 10))

	banned := true
	p.Banned = &banned
	p.SetExperience(300)
	s.Require().NoError(s.Storage.UpdatePlayer(s.Ctx, p))

	got, err := s.Storage.GetPlayer(s.Ctx, p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Banned)
	s.True(*got.Banned)
	s.Equal(300, got.Experience)
	s.Equal(2, got.Level)
}

func (s *Suite) TestUpdateDeletedPlayerStaysDeleted() {
	p := s.save(NewPlayer("Alice", model.RaceElf, 2001, nil, 10))
	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, p.ID))

	p.Name = "Alicia"
	err := s.Storage.UpdatePlayer(s.Ctx, p)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Storage.GetPlayer(s.Ctx, p.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *Suite) TestFindPlayersFiltersSortsAndPages() {
	for i, name := range []string{"Jan", "Ian", "Hal", "Gus", "Fay", "Eve", "Dan", "Cat", "Bea", "Amy"} {
		s.save(NewPlayer(name, model.RaceHuman, 2000+i, nil, i*100))
	}
	s.save(NewPlayer("Orcus", model.RaceOrc, 2020, nil, 5))

	q := query.New()
	q.Filter.Race = ptr(model.RaceHuman)
	q.Order = query.OrderName

	page := query.Page{Number: 0, Size: 3}
	result, err := s.Storage.FindPlayers(s.Ctx, q, &page)
	s.Require().NoError(err)
	s.Require().Len(result, 3)
	s.Equal("Amy", result[0].Name)
	s.Equal("Bea", result[1].Name)
	s.Equal("Cat", result[2].Name)

	page = query.Page{Number: 3, Size: 3}
	result, err = s.Storage.FindPlayers(s.Ctx, q, &page)
	s.Require().NoError(err)
	s.Require().Len(result, 1)
	s.Equal("Jan", result[0].Name)

	all, err := s.Storage.FindPlayers(s.Ctx, q, nil)
	s.Require().NoError(err)
	s.Len(all, 10)
}

func (s *Suite) TestFindPlayersCaseInsensitiveSubstring() {
	s.save(NewPlayer("Shadowmere", model.RaceElf, 2001, nil, 10))
	s.save(NewPlayer("Meredith", model.RaceElf, 2001, nil, 10))
	s.save(NewPlayer("Bob", model.RaceElf, 2001, nil, 10))

	f := query.DefaultFilter()
	f.Name = ptr("MERE")
	count, err := s.Storage.CountMatchingPlayers(s.Ctx, f)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *Suite) TestFindPlayersRanges() {
	banned := true
	notBanned := false
	s.save(NewPlayer("Low", model.RaceElf, 2001, &notBanned, 0))
	s.save(NewPlayer("Mid", model.RaceElf, 2005, &banned, 300))
	s.save(NewPlayer("High", model.RaceElf, 2010, nil, 10_000))

	f := query.DefaultFilter()
	f.MinLevel = 1
	f.MaxLevel = 5
	result, err := s.Storage.FindPlayers(s.Ctx, query.Query{Filter: f, Order: query.OrderID}, nil)
	s.Require().NoError(err)
	s.Require().Len(result, 1)
	s.Equal("Mid", result[0].Name)

	f = query.DefaultFilter()
	f.Banned = &notBanned
	count, err := s.Storage.CountMatchingPlayers(s.Ctx, f)
	s.Require().NoError(err)
	s.Equal(1, count)

	f = query.DefaultFilter()
	after := time.Date(2005, time.June, 15, 12, 0, 0, 0, time.UTC)
	f.After = &after
	count, err = s.Storage.CountMatchingPlayers(s.Ctx, f)
	s.Require().NoError(err)
	s.Equal(2, count)

	// after >= before applies no birthday constraint
	before := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	f.Before = &before
	count, err = s.Storage.CountMatchingPlayers(s.Ctx, f)
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *Suite) TestFindPlayersOrderedByExperienceBreaksTiesByID() {
	a := s.save(NewPlayer("A", model.RaceElf, 2001, nil, 50))
	b := s.save(NewPlayer("B", model.RaceElf, 2001, nil, 10))
	c := s.save(NewPlayer("C", model.RaceElf, 2001, nil, 50))

	q := query.New()
	q.Order = query.OrderExperience
	result, err := s.Storage.FindPlayers(s.Ctx, q, nil)
	s.Require().NoError(err)
	s.Require().Len(result, 3)
	s.Equal([]model.PlayerID{b.ID, a.ID, c.ID}, []model.PlayerID{result[0].ID, result[1].ID, result[2].ID})
}
