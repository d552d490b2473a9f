package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"illitworld/internal/auth"
	"illitworld/internal/engine"
)

type contextKey string

const userIDKey contextKey = "userID"

type SessionSource interface {
	Session(ctx context.Context, userID string) *engine.Session
}

type Config struct {
	Sessions  SessionSource
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *zap.Logger
}

type Server struct {
	router   chi.Router
	sessions SessionSource
	secret   string
	ttl      time.Duration
	log      *zap.Logger
}

func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(zapMiddleware(log))
	r.Use(middleware.Recoverer)

	s := &Server{router: r, sessions: cfg.Sessions, secret: cfg.JWTSecret, ttl: ttl, log: log}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Post("/api/login", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/api/status", s.handleStatus)
		r.Get("/api/videos", s.handleVideos)
		r.Post("/api/videos/{id}/watch", s.handleWatch)
		r.Post("/api/videos/{id}/favorite", s.handleFavorite)
		r.Get("/api/characters/{id}/cards", s.handleCards)
		r.Post("/api/characters/{id}/card", s.handleSelectCard)

		r.Route("/api/queue", func(r chi.Router) {
			r.Get("/", s.handleQueue)
			r.Post("/play/{id}", s.handlePlay)
			r.Post("/progress", s.handleProgress)
			r.Post("/ended", s.handleEnded)
			r.Post("/{action}", s.handleQueueAction)
		})
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			WriteError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			WriteError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}
		claims, err := auth.ValidateToken(s.secret, tokenStr)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func (s *Server) session(r *http.Request) *engine.Session {
	return s.sessions.Session(r.Context(), UserIDFromContext(r.Context()))
}
