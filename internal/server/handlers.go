package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"illitworld/internal/auth"
	"illitworld/internal/catalog"
	"illitworld/internal/engine"
)

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" {
		WriteError(w, http.StatusServiceUnavailable, "login is disabled: no jwt secret configured")
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	u := auth.User{ID: auth.UserID(email), Email: email}
	token, err := auth.IssueToken(s.secret, u, s.ttl)
	if err != nil {
		s.log.Error("issue token", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

type characterView struct {
	engine.Character
	XPIntoLevel int `json:"xpIntoLevel"`
	XPPerLevel  int `json:"xpPerLevel"`
}

type statusResponse struct {
	UserID             string               `json:"userId"`
	Characters         []characterView      `json:"characters"`
	WatchedCount       int                  `json:"watchedCount"`
	VideoCount         int                  `json:"videoCount"`
	Favorites          int                  `json:"favorites"`
	ShowPhotos         bool                 `json:"showPhotos"`
	SelectedBackground string               `json:"selectedBackground"`
	Achievements       []engine.Achievement `json:"achievements"`
	Queue              engine.QueueState    `json:"queue"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	rules := sess.Rules()
	roster := sess.Roster()
	views := make([]characterView, len(roster))
	for i, c := range roster {
		views[i] = characterView{Character: c, XPIntoLevel: rules.XPIntoLevel(c.XP), XPPerLevel: rules.XPPerLevel}
	}
	WriteJSON(w, http.StatusOK, statusResponse{
		UserID:             sess.UserID(),
		Characters:         views,
		WatchedCount:       len(sess.FilteredVideos(engine.FilterWatched)),
		VideoCount:         len(sess.FilteredVideos(engine.FilterAll)),
		Favorites:          len(sess.Favorites()),
		ShowPhotos:         sess.ShowPhotos(),
		SelectedBackground: sess.SelectedBackground(),
		Achievements:       sess.Achievements(),
		Queue:              sess.QueueState(),
	})
}

type videoView struct {
	catalog.Video
	Watched   bool  `json:"watched"`
	WatchedAt int64 `json:"watchedAt,omitempty"`
	Favorite  bool  `json:"favorite"`
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	filter, err := engine.ParseVideoFilter(r.URL.Query().Get("filter"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.session(r)
	watched, favorites := sess.Watched(), sess.Favorites()
	list := sess.FilteredVideos(filter)
	out := make([]videoView, len(list))
	for i, v := range list {
		ts, ok := watched[v.ID]
		out[i] = videoView{Video: v, Watched: ok, WatchedAt: ts, Favorite: favorites[v.ID]}
	}
	WriteJSON(w, http.StatusOK, out)
}

type watchRequest struct {
	Fraction float64 `json:"fraction"`
}

type watchResponse struct {
	Rewarded bool                 `json:"rewarded"`
	Reward   *engine.RewardResult `json:"reward,omitempty"`
}

// handleWatch records a viewing made outside the queue. A missing fraction
// means the reward threshold. The caller's queue is not touched.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Fraction < 0 || req.Fraction > 1 {
		WriteError(w, http.StatusBadRequest, "fraction must be between 0 and 1")
		return
	}
	sess := s.session(r)
	if req.Fraction == 0 {
		req.Fraction = sess.Rules().RewardThreshold
	}
	res, ok := sess.RecordWatch(chi.URLParam(r, "id"), req.Fraction)
	if !ok {
		WriteError(w, http.StatusNotFound, "video not found")
		return
	}
	WriteJSON(w, http.StatusOK, watchResponse{Rewarded: res != nil, Reward: res})
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	id := chi.URLParam(r, "id")
	if _, ok := sess.Video(id); !ok {
		WriteError(w, http.StatusNotFound, "video not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"favorite": sess.ToggleFavorite(id)})
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	c, ok := sess.Character(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, http.StatusNotFound, "character not found")
		return
	}
	WriteJSON(w, http.StatusOK, engine.CardBook(c, sess.Watched()))
}

type selectCardRequest struct {
	CardID string `json:"cardId"`
}

func (s *Server) handleSelectCard(w http.ResponseWriter, r *http.Request) {
	var req selectCardRequest
	if err := decodeJSON(w, r, &req); err != nil || req.CardID == "" {
		WriteError(w, http.StatusBadRequest, "cardId is required")
		return
	}
	sess := s.session(r)
	id := chi.URLParam(r, "id")
	if _, ok := sess.Character(id); !ok {
		WriteError(w, http.StatusNotFound, "character not found")
		return
	}
	if err := sess.SelectPhotoCard(id, req.CardID); err != nil {
		var locked engine.CardLockedError
		if errors.As(err, &locked) {
			WriteError(w, http.StatusForbidden, locked.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	c, _ := sess.Character(id)
	WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.session(r).QueueState())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	filter, err := engine.ParseVideoFilter(r.URL.Query().Get("filter"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.session(r)
	if !sess.SelectAndPlay(chi.URLParam(r, "id"), filter) {
		WriteError(w, http.StatusNotFound, "video not found")
		return
	}
	WriteJSON(w, http.StatusOK, sess.QueueState())
}

func (s *Server) handleQueueAction(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	filter, err := engine.ParseVideoFilter(r.URL.Query().Get("filter"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var state engine.QueueState
	switch chi.URLParam(r, "action") {
	case "autoplay":
		state = sess.StartSequentialAutoPlay()
	case "shuffle":
		state = sess.StartShuffledAutoPlay()
	case "play-filtered":
		state = sess.StartFilteredAutoPlay(filter)
	case "shuffle-filtered":
		state = sess.StartShuffledFilteredAutoPlay(filter)
	case "next":
		state = sess.Next()
	case "prev":
		state = sess.Prev()
	case "exit":
		state = sess.Exit()
	default:
		WriteError(w, http.StatusNotFound, "unknown queue action")
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

type progressRequest struct {
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

type progressResponse struct {
	Reward *engine.RewardResult `json:"reward"`
	Queue  engine.QueueState    `json:"queue"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess := s.session(r)
	res := sess.OnProgressTick(req.Position, req.Duration)
	WriteJSON(w, http.StatusOK, progressResponse{Reward: res, Queue: sess.QueueState()})
}

func (s *Server) handleEnded(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	advanced := sess.OnPlaybackEnded()
	WriteJSON(w, http.StatusOK, map[string]any{"advanced": advanced, "queue": sess.QueueState()})
}
