package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playerbase/internal/api"
	"github.com/mcoot/playerbase/internal/api/apierr"
	"github.com/mcoot/playerbase/internal/api/response"
	"github.com/mcoot/playerbase/internal/factory"
	"github.com/mcoot/playerbase/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testutil.NopLogger()

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		PlayerService: app.PlayerService,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

var defaultBirthday = time.Date(2010, time.October, 12, 0, 0, 0, 0, time.UTC)

func playerBody(name string, experience int) map[string]any {
	return map[string]any{
		"name":       name,
		"title":      "Высокий",
		"race":       "HOBBIT",
		"profession": "ROGUE",
		"birthday":   defaultBirthday.UnixMilli(),
		"experience": experience,
	}
}

func createPlayer(t *testing.T, ts *testServer, body map[string]any) response.Player {
	t.Helper()
	rr := ts.request(http.MethodPost, "/rest/players", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var p response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	createPlayer(t, ts, playerBody("Alice", 10))

	rr := ts.request(http.MethodGet, "/rest/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var health response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Players)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/rest/health", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/rest/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}

func TestCreatePlayer(t *testing.T) {
	ts := newTestServer(t)

	body := playerBody("Ниус", 100)
	body["level"] = 99
	body["untilNextLevel"] = 1
	p := createPlayer(t, ts, body)

	assert.Positive(t, p.ID)
	assert.Equal(t, "Ниус", p.Name)
	assert.Equal(t, "HOBBIT", p.Race)
	assert.Equal(t, defaultBirthday.UnixMilli(), p.Birthday)
	assert.Nil(t, p.Banned)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 200, p.UntilNextLevel)
}

func TestCreatePlayerWireShape(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/rest/players", playerBody("Alice", 0))
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	for _, key := range []string{"id", "name", "title", "race", "profession", "birthday", "banned", "experience", "level", "untilNextLevel"} {
		assert.Contains(t, raw, key)
	}
}

func TestCreatePlayerValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := map[string]func(b map[string]any){
		"empty name":         func(b map[string]any) { b["name"] = "" },
		"long name":          func(b map[string]any) { b["name"] = "abcdefghijklm" },
		"missing title":      func(b map[string]any) { delete(b, "title") },
		"unknown race":       func(b map[string]any) { b["race"] = "GNOME" },
		"birthday too early": func(b map[string]any) { b["birthday"] = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli() },
		"negative xp":        func(b map[string]any) { b["experience"] = -1 },
		"xp too high":        func(b map[string]any) { b["experience"] = 10_000_001 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := playerBody("Alice", 10)
			mutate(body)

			rr := ts.request(http.MethodPost, "/rest/players", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, apierr.CodeInvalidInput, decodeError(t, rr).Code)
		})
	}

	rr := ts.request(http.MethodGet, "/rest/players/count", nil)
	assert.Equal(t, "0", string(bytes.TrimSpace(rr.Body.Bytes())))
}

func TestCreatePlayerMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/rest/players", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidInput, decodeError(t, rr).Code)
}

func TestGetPlayer(t *testing.T) {
	ts := newTestServer(t)
	created := createPlayer(t, ts, playerBody("Alice", 300))

	rr := ts.request(http.MethodGet, fmt.Sprintf("/rest/players/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var p response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, created, p)
}

func TestGetPlayerErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/rest/players/0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/rest/players/-4", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/rest/players/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/rest/players/42", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decodeError(t, rr).Code)
}

func TestUpdatePlayerBannedOnly(t *testing.T) {
	ts := newTestServer(t)
	created := createPlayer(t, ts, playerBody("Alice", 300))

	path := fmt.Sprintf("/rest/players/%d", created.ID)
	rr := ts.request(http.MethodPost, path, map[string]any{"banned": true})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.NotNil(t, updated.Banned)
	assert.True(t, *updated.Banned)

	created.Banned = updated.Banned
	assert.Equal(t, created, updated)
}

func TestUpdatePlayerExperience(t *testing.T) {
	ts := newTestServer(t)
	created := createPlayer(t, ts, playerBody("Alice", 0))

	path := fmt.Sprintf("/rest/players/%d", created.ID)
	rr := ts.request(http.MethodPost, path, map[string]any{"experience": 600, "level": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, 3, updated.Level)
	assert.Equal(t, 400, updated.UntilNextLevel)
}

func TestUpdatePlayerErrors(t *testing.T) {
	ts := newTestServer(t)
	created := createPlayer(t, ts, playerBody("Alice", 0))
	path := fmt.Sprintf("/rest/players/%d", created.ID)

	rr := ts.request(http.MethodPost, path, map[string]any{"name": "Bob", "title": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, path, nil)
	var p response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, "Alice", p.Name)

	rr = ts.request(http.MethodPost, "/rest/players/99", map[string]any{"banned": true})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/rest/players/0", map[string]any{"banned": true})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeletePlayer(t *testing.T) {
	ts := newTestServer(t)
	created := createPlayer(t, ts, playerBody("Alice", 0))
	path := fmt.Sprintf("/rest/players/%d", created.ID)

	rr := ts.request(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = ts.request(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, "/rest/players/0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListPagination(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 10; i++ {
		createPlayer(t, ts, playerBody(fmt.Sprintf("P%02d", i), i))
	}

	list := func(path string) []response.Player {
		rr := ts.request(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var players []response.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
		return players
	}

	first := list("/rest/players")
	require.Len(t, first, 3)
	assert.Equal(t, "P00", first[0].Name)

	last := list("/rest/players?pageNumber=3&pageSize=3")
	require.Len(t, last, 1)
	assert.Equal(t, "P09", last[0].Name)

	empty := list("/rest/players?pageNumber=9")
	assert.Empty(t, empty)
	rr := ts.request(http.MethodGet, "/rest/players?pageNumber=9", nil)
	assert.Equal(t, "[]", string(bytes.TrimSpace(rr.Body.Bytes())))
}

func TestListFiltersAndOrder(t *testing.T) {
	ts := newTestServer(t)

	elf := playerBody("Эман", 5000)
	elf["race"] = "ELF"
	elf["banned"] = true
	createPlayer(t, ts, elf)
	createPlayer(t, ts, playerBody("Alice", 100))
	createPlayer(t, ts, playerBody("alina", 900))

	rr := ts.request(http.MethodGet, "/rest/players?name=ALI&order=EXPERIENCE&pageSize=10", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 2)
	assert.Equal(t, "Alice", players[0].Name)
	assert.Equal(t, "alina", players[1].Name)

	rr = ts.request(http.MethodGet, "/rest/players?race=ELF&banned=true", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Эман", players[0].Name)

	rr = ts.request(http.MethodGet, "/rest/players?minLevel=2&maxLevel=5&pageSize=10", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, "alina", players[0].Name)
}

func TestListRejectsBadParameters(t *testing.T) {
	ts := newTestServer(t)

	for _, qs := range []string{
		"order=AGE",
		"race=GNOME",
		"profession=BARD",
		"banned=maybe",
		"minExperience=lots",
		"after=yesterday",
		"pageNumber=-1",
		"pageSize=0",
	} {
		rr := ts.request(http.MethodGet, "/rest/players?"+qs, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, qs)
	}
}

func TestCount(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 5; i++ {
		createPlayer(t, ts, playerBody(fmt.Sprintf("P%d", i), i*100))
	}

	count := func(qs string) int {
		rr := ts.request(http.MethodGet, "/rest/players/count?"+qs, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		n, err := strconv.Atoi(string(bytes.TrimSpace(rr.Body.Bytes())))
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, 5, count(""))
	assert.Equal(t, 3, count("minExperience=200"))
	assert.Equal(t, 5, count("after=1000&before=500"))
	assert.Equal(t, 5, count("after=0&before=0"))

	inRange := fmt.Sprintf("after=%d&before=%d",
		defaultBirthday.Add(-time.Hour).UnixMilli(), defaultBirthday.Add(time.Hour).UnixMilli())
	assert.Equal(t, 5, count(inRange))

	tooLate := fmt.Sprintf("after=%d", defaultBirthday.Add(time.Hour).UnixMilli())
	assert.Equal(t, 0, count(tooLate))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/rest/teams", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPut, "/rest/players/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
