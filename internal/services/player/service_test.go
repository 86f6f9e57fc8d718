package player

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerbase/internal/model"
	"github.com/mcoot/playerbase/internal/query"
	"github.com/mcoot/playerbase/internal/storage"
	"github.com/mcoot/playerbase/internal/storage/memory"
	"github.com/mcoot/playerbase/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) create(name string, experience int) *model.Player {
	c := validCandidate()
	c.Name = ptr(name)
	c.Experience = ptr(experience)
	p, err := s.service.Create(s.ctx, c)
	s.Require().NoError(err)
	return p
}

// Create tests

func (s *ServiceSuite) TestCreateAssignsIDAndDerivedFields() {
	p, err := s.service.Create(s.ctx, validCandidate())
	s.Require().NoError(err)

	s.Positive(int64(p.ID))
	s.Equal(1, p.Level)
	s.Equal(200, p.UntilNextLevel)

	stored, err := s.storage.GetPlayer(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p, stored)
}

func (s *ServiceSuite) TestCreateInvalidStoresNothing() {
	c := validCandidate()
	c.Name = ptr("")

	_, err := s.service.Create(s.ctx, c)
	s.ErrorIs(err, model.ErrInvalidInput)

	n, err := s.service.Total(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

// Get tests

func (s *ServiceSuite) TestGetReturnsPlayer() {
	created := s.create("Alice", 300)

	got, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Alice", got.Name)
	s.Equal(2, got.Level)
}

func (s *ServiceSuite) TestGetRejectsNonPositiveID() {
	_, err := s.service.Get(s.ctx, 0)
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.Get(s.ctx, -1)
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *ServiceSuite) TestGetMissingPlayer() {
	_, err := s.service.Get(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Update tests

func (s *ServiceSuite) TestUpdateBannedOnly() {
	created := s.create("Alice", 300)

	updated, err := s.service.Update(s.ctx, created.ID, model.PlayerPatch{Banned: ptr(true)})
	s.Require().NoError(err)
	s.True(updated.IsBanned())

	stored, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(stored.IsBanned())
	s.Equal(created.Name, stored.Name)
	s.Equal(created.Title, stored.Title)
	s.Equal(created.Race, stored.Race)
	s.Equal(created.Profession, stored.Profession)
	s.True(created.Birthday.Equal(stored.Birthday))
	s.Equal(created.Experience, stored.Experience)
	s.Equal(created.Level, stored.Level)
	s.Equal(created.UntilNextLevel, stored.UntilNextLevel)
}

func (s *ServiceSuite) TestUpdateExperienceRecomputesLevel() {
	created := s.create("Alice", 0)

	updated, err := s.service.Update(s.ctx, created.ID, model.PlayerPatch{Experience: ptr(600)})
	s.Require().NoError(err)
	s.Equal(3, updated.Level)
	s.Equal(400, updated.UntilNextLevel)
}

func (s *ServiceSuite) TestUpdateInvalidPatchLeavesRecordUnchanged() {
	created := s.create("Alice", 300)

	_, err := s.service.Update(s.ctx, created.ID, model.PlayerPatch{
		Name:  ptr("Renamed"),
		Title: ptr(""),
	})
	s.ErrorIs(err, model.ErrInvalidInput)

	stored, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.Name)
	s.Equal(created.Title, stored.Title)
}

func (s *ServiceSuite) TestUpdateMissingPlayerBeforeValidatingPatch() {
	_, err := s.service.Update(s.ctx, 99, model.PlayerPatch{Experience: ptr(-1)})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// deleteBeforeUpdate removes the record just before the update is written
type deleteBeforeUpdate struct {
	*memory.Storage
}

func (d deleteBeforeUpdate) UpdatePlayer(ctx context.Context, p *model.Player) error {
	if err := d.DeletePlayer(ctx, p.ID); err != nil {
		return err
	}
	return d.Storage.UpdatePlayer(ctx, p)
}

func (s *ServiceSuite) TestUpdateDoesNotResurrectDeletedPlayer() {
	p := s.create("Alice", 10)
	svc := New(deleteBeforeUpdate{s.storage}, testutil.NopLogger())

	_, err := svc.Update(s.ctx, p.ID, model.PlayerPatch{Banned: ptr(true)})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.service.Get(s.ctx, p.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestUpdateRejectsNonPositiveID() {
	_, err := s.service.Update(s.ctx, 0, model.PlayerPatch{})
	s.ErrorIs(err, model.ErrInvalidInput)
}

// Delete tests

func (s *ServiceSuite) TestDeleteThenGetIsNotFound() {
	created := s.create("Alice", 10)

	s.Require().NoError(s.service.Delete(s.ctx, created.ID))

	_, err := s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestDeleteMissingPlayer() {
	err := s.service.Delete(s.ctx, 5)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestDeleteTwice() {
	created := s.create("Alice", 10)
	s.Require().NoError(s.service.Delete(s.ctx, created.ID))

	err := s.service.Delete(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestDeleteRejectsNonPositiveID() {
	s.ErrorIs(s.service.Delete(s.ctx, -7), model.ErrInvalidInput)
}

// List and Count tests

func (s *ServiceSuite) TestListPagination() {
	for i := 0; i < 10; i++ {
		s.create(fmt.Sprintf("P%02d", i), i*10)
	}

	first, err := s.service.List(s.ctx, query.New(), query.Page{Number: 0, Size: 3})
	s.Require().NoError(err)
	s.Len(first, 3)
	s.Equal("P00", first[0].Name)

	last, err := s.service.List(s.ctx, query.New(), query.Page{Number: 3, Size: 3})
	s.Require().NoError(err)
	s.Len(last, 1)
	s.Equal("P09", last[0].Name)

	beyond, err := s.service.List(s.ctx, query.New(), query.Page{Number: 4, Size: 3})
	s.Require().NoError(err)
	s.Empty(beyond)
}

func (s *ServiceSuite) TestListInvertedBirthdayRangeIsNoOp() {
	for i := 0; i < 4; i++ {
		s.create(fmt.Sprintf("P%d", i), 0)
	}

	q := query.New()
	q.Filter.After = ptr(time.UnixMilli(1000))
	q.Filter.Before = ptr(time.UnixMilli(500))

	players, err := s.service.List(s.ctx, q, query.Page{Number: 0, Size: 10})
	s.Require().NoError(err)
	s.Len(players, 4)

	n, err := s.service.Count(s.ctx, q.Filter)
	s.Require().NoError(err)
	s.Equal(4, n)
}

func (s *ServiceSuite) TestListOrderedByExperience() {
	s.create("High", 900)
	s.create("Low", 5)
	s.create("Mid", 300)

	q := query.New()
	q.Order = query.OrderExperience

	players, err := s.service.List(s.ctx, q, query.Page{Number: 0, Size: 10})
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Low", players[0].Name)
	s.Equal("Mid", players[1].Name)
	s.Equal("High", players[2].Name)
}

func (s *ServiceSuite) TestListTrimsOrder() {
	s.create("Cid", 1)
	s.create("Abe", 2)
	s.create("Bo", 3)

	q := query.New()
	q.Order = query.Order(" NAME ")

	players, err := s.service.List(s.ctx, q, query.Page{Number: 0, Size: 10})
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Abe", players[0].Name)
	s.Equal("Bo", players[1].Name)
	s.Equal("Cid", players[2].Name)
}

func (s *ServiceSuite) TestListRejectsInvalidPage() {
	_, err := s.service.List(s.ctx, query.New(), query.Page{Number: -1, Size: 3})
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.List(s.ctx, query.New(), query.Page{Number: 0, Size: 0})
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *ServiceSuite) TestListRejectsUnknownOrder() {
	q := query.New()
	q.Order = query.Order("AGE")

	_, err := s.service.List(s.ctx, q, query.DefaultPage())
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *ServiceSuite) TestCountMatchesListWithoutPaging() {
	s.create("Alice", 100)
	s.create("alina", 5000)
	s.create("Bob", 100)

	f := query.DefaultFilter()
	f.Name = ptr("ALI")

	n, err := s.service.Count(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(2, n)

	f.MinLevel = 2
	n, err = s.service.Count(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(1, n)
}

// Storage failure tests

type failingStorage struct {
	storage.Storage
}

var errBackendDown = errors.New("connection refused")

func (failingStorage) SavePlayer(context.Context, *model.Player) error   { return errBackendDown }
func (failingStorage) UpdatePlayer(context.Context, *model.Player) error { return errBackendDown }
func (failingStorage) GetPlayer(context.Context, model.PlayerID) (*model.Player, error) {
	return nil, errBackendDown
}
func (failingStorage) PlayerExists(context.Context, model.PlayerID) (bool, error) {
	return false, errBackendDown
}
func (failingStorage) FindPlayers(context.Context, query.Query, *query.Page) ([]*model.Player, error) {
	return nil, errBackendDown
}
func (failingStorage) CountMatchingPlayers(context.Context, query.Filter) (int, error) {
	return 0, errBackendDown
}

func TestServiceWrapsStorageFailures(t *testing.T) {
	svc := New(failingStorage{}, testutil.NopLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, validCandidate())
	assertUnavailable(t, err)

	_, err = svc.Get(ctx, 1)
	assertUnavailable(t, err)

	err = svc.Delete(ctx, 1)
	assertUnavailable(t, err)

	_, err = svc.List(ctx, query.New(), query.DefaultPage())
	assertUnavailable(t, err)

	_, err = svc.Count(ctx, query.DefaultFilter())
	assertUnavailable(t, err)
}

func assertUnavailable(t *testing.T, err error) {
	t.Helper()
	require.ErrorIs(t, err, model.ErrStorageUnavailable)
	require.ErrorIs(t, err, errBackendDown)
}
