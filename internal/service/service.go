// Package service exposes the lobby manager over REST.
package service

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/yola1107/kratos/v2/errors"
	"github.com/yola1107/kratos/v2/log"

	"github.com/yola1107/quizpoker/internal/biz/lobby"
	"github.com/yola1107/quizpoker/internal/model"
)

// Service is the REST facade. Game traffic itself runs over the socket; the
// REST surface only creates, resolves and inspects lobbies.
type Service struct {
	lobbies *lobby.Manager
}

func NewService(lobbies *lobby.Manager) *Service {
	return &Service{lobbies: lobbies}
}

// playerRef is the request body naming the acting player.
type playerRef struct {
	Name string `json:"name"`
}

// lobbyView is the REST representation of a lobby. Like the socket snapshot
// it hides information the round has not revealed yet.
type lobbyView struct {
	UUID      string               `json:"uuid"`
	Token     string               `json:"connectionToken"`
	Host      string               `json:"host"`
	Name      string               `json:"name"`
	Publicity model.LobbyPublicity `json:"publicity"`
	State     model.GameState      `json:"state"`
	Players   []playerView         `json:"players"`
}

type playerView struct {
	Name     string                `json:"name"`
	State    model.ConnectionState `json:"connectionState"`
	Role     model.PlayerRole      `json:"role"`
	Score    int64                 `json:"score"`
	Pot      int64                 `json:"pot"`
	Folded   bool                  `json:"folded"`
	Answer   *int64                `json:"answer,omitempty"`
	Revealed bool                  `json:"revealed"`
}

func viewOf(l *lobby.Lobby) lobbyView {
	v := lobbyView{
		UUID:      l.ID,
		Token:     l.Token,
		Host:      l.Host(),
		Name:      l.Name(),
		Publicity: l.Publicity(),
		State:     l.State(),
	}
	for _, p := range l.Players() {
		pv := playerView{
			Name:     p.Name(),
			State:    p.ConnState(),
			Role:     p.Role(),
			Score:    p.Score(),
			Pot:      p.Pot(),
			Folded:   p.Folded(),
			Revealed: p.Revealed(),
		}
		if answer, ok := p.Answer(); ok && p.Revealed() {
			pv.Answer = &answer
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

// Routes builds the REST router.
func (s *Service) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/quizpoker/lobby", s.createLobby).Methods(http.MethodPut)
	r.HandleFunc("/quizpoker/lobby/public/all", s.publicLobbies).Methods(http.MethodGet)
	r.HandleFunc("/quizpoker/lobby/token/{token}", s.resolveToken).Methods(http.MethodGet)
	r.HandleFunc("/quizpoker/lobby/{uuid}", s.joinLobby).Methods(http.MethodPost)
	r.HandleFunc("/quizpoker/lobby/{uuid}", s.leaveLobby).Methods(http.MethodDelete)
	r.HandleFunc("/quizpoker/lobby/{uuid}", s.getLobby).Methods(http.MethodGet)
	return r
}

func (s *Service) createLobby(w http.ResponseWriter, req *http.Request) {
	var player playerRef
	if !decodeBody(w, req, &player) {
		return
	}

	log.Infof("player %s creates a new lobby", player.Name)
	l, err := s.lobbies.Create(player.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := l.Connect(player.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(l))
}

func (s *Service) joinLobby(w http.ResponseWriter, req *http.Request) {
	var player playerRef
	if !decodeBody(w, req, &player) {
		return
	}

	l, err := s.lobbies.Get(mux.Vars(req)["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}

	log.Infof("player %s joins lobby %s", player.Name, l.ID)
	if _, err := l.Connect(player.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(l))
}

func (s *Service) leaveLobby(w http.ResponseWriter, req *http.Request) {
	var player playerRef
	if !decodeBody(w, req, &player) {
		return
	}

	l, err := s.lobbies.Get(mux.Vars(req)["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}

	log.Infof("player %s leaves lobby %s", player.Name, l.ID)
	if p, ok := l.PlayerByName(player.Name); ok {
		l.Disconnect(p)
	}
	writeJSON(w, http.StatusOK, viewOf(l))
}

func (s *Service) getLobby(w http.ResponseWriter, req *http.Request) {
	l, err := s.lobbies.Get(mux.Vars(req)["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(l))
}

func (s *Service) publicLobbies(w http.ResponseWriter, _ *http.Request) {
	views := make([]lobbyView, 0)
	for _, l := range s.lobbies.Public() {
		views = append(views, viewOf(l))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Service) resolveToken(w http.ResponseWriter, req *http.Request) {
	l, err := s.lobbies.GetByToken(mux.Vars(req)["token"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l.ID)
}

func decodeBody(w http.ResponseWriter, req *http.Request, out *playerRef) bool {
	if err := json.NewDecoder(req.Body).Decode(out); err != nil || out.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a player name is required"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	se := errors.FromError(err)
	writeJSON(w, int(se.Code), map[string]string{"error": se.Reason})
}
