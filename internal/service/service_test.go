package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yola1107/quizpoker/internal/biz/lobby"
	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/socket"
	"github.com/yola1107/quizpoker/internal/values"
)

type nopSender struct{}

func (nopSender) Send(string, socket.PackageType, values.Values, time.Duration, socket.SendCallbacks) {
}

func (nopSender) Kick(string) {}

type inlineExec struct{}

func (inlineExec) Post(job func()) { job() }

func (inlineExec) Forever(time.Duration, func()) int64 { return 0 }

type noQuestions struct{}

func (noQuestions) Query(*model.QuestionQuery) ([]*model.Question, error) { return nil, nil }

func newTestServer(t *testing.T) (*httptest.Server, *lobby.Manager) {
	t.Helper()
	m := lobby.NewManager(nopSender{}, inlineExec{}, noQuestions{}, model.ConnectionSettings{})
	srv := httptest.NewServer(NewService(m).Routes())
	t.Cleanup(srv.Close)
	return srv, m
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestLobbyLifecycleOverREST(t *testing.T) {
	srv, m := newTestServer(t)

	resp, created := doJSON(t, http.MethodPut, srv.URL+"/quizpoker/lobby", `{"name":"alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	uuid := created["uuid"].(string)
	token := created["connectionToken"].(string)
	require.NotEmpty(t, uuid)
	require.Len(t, token, 6)
	assert.Equal(t, "alice", created["host"])

	resp, joined := doJSON(t, http.MethodPost, srv.URL+"/quizpoker/lobby/"+uuid, `{"name":"bob"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, joined["players"], 2)

	// The same name cannot join twice while the seat is contested.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/quizpoker/lobby/"+uuid, `{"name":"bob"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/quizpoker/lobby/token/"+token, nil)
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	var resolved string
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&resolved))
	assert.Equal(t, uuid, resolved)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/quizpoker/lobby/"+uuid, `{"name":"bob"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	l, err := m.Get(uuid)
	require.NoError(t, err)
	p, ok := l.PlayerByName("bob")
	require.True(t, ok)
	assert.Equal(t, model.ConnDisconnected, p.ConnState())
}

func TestUnknownLobbyIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/quizpoker/lobby/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/quizpoker/lobby/token/zzzzzz", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicListingFiltersPrivate(t *testing.T) {
	srv, m := newTestServer(t)

	_, err := m.Create("alice")
	require.NoError(t, err)

	open, err := m.Create("bob")
	require.NoError(t, err)
	openLobby, err := m.Get(open.ID)
	require.NoError(t, err)
	_ = openLobby

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/quizpoker/lobby/public/all", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var listed []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Empty(t, listed, "lobbies default to CODE_ONLY")
}

func TestCreateRequiresName(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/quizpoker/lobby", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
