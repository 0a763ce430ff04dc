package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/steeplechat/server/internal/bot"
	errx "github.com/steeplechat/server/internal/core/error"
	logx "github.com/steeplechat/server/pkg/logger"
)

//go:embed widget.js
var widgetJS []byte

// Server exposes the bot over HTTP: the resolution endpoint, the embeddable
// widget script, and the ops endpoints. CORS is wide open so the widget can
// run on any tenant's site.
type Server struct {
	router *chi.Mux
	bot    *bot.Router
}

func New(botRouter *bot.Router) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s := &Server{router: r, bot: botRouter}

	r.Post("/bot", s.handleBot)
	r.Get("/widget.js", s.handleWidget)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleBot(w http.ResponseWriter, r *http.Request) {
	var req bot.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	resp, err := s.bot.Handle(r.Context(), req)
	if err != nil {
		logx.Error().Err(err).Str("tenantID", req.ChurchID).Msg("request handling failed")
		status, message := http.StatusInternalServerError, errx.SystemErrorMessage
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			status, message = appErr.Status, appErr.Message
		}
		writeJSON(w, status, map[string]string{"error": message})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWidget(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(widgetJS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}
