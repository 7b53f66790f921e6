package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/robfig/cron/v3"

	"scantimeline/internal/cache"
	"scantimeline/internal/charts"
	"scantimeline/internal/config"
	"scantimeline/internal/embeds"
	"scantimeline/internal/fixtures"
	"scantimeline/internal/i18n"
	"scantimeline/internal/logging"
)

const (
	sessionName   = "scantimeline-session"
	pageIDKey     = "page_id"
	clickEndpoint = "/ui/click/"
	purgeSchedule = "@every 1m"

	shutdownTimeout = 10 * time.Second
)

// Server represents the HTTP server
type Server struct {
	config       *config.Config
	templates    *template.Template
	sessionStore *sessions.CookieStore
	statuses     *fixtures.Set
	translator   *i18n.Catalog
	factory      charts.Factory
	pages        *cache.Cache[*livePage]
	cron         *cron.Cron
}

// New creates a new server instance
func New(cfg *config.Config, statuses *fixtures.Set) (*Server, error) {
	factory, err := charts.NewFactory(cfg.ChartBackend)
	if err != nil {
		return nil, err
	}

	sessionKey := []byte(cfg.SessionKey)
	if len(sessionKey) == 0 {
		logging.Warning("SESSION_KEY not set, using a random key; sessions end on restart")
		sessionKey = securecookie.GenerateRandomKey(32)
	}

	s := &Server{
		config:       cfg,
		sessionStore: sessions.NewCookieStore(sessionKey),
		statuses:     statuses,
		translator:   i18n.New(cfg.Locale),
		factory:      factory,
		pages:        cache.New[*livePage](cfg.TTL()),
	}

	s.sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	s.pages.OnEvict(func(id string, lp *livePage) {
		lp.destroy()
		logging.Debug("Expired page %s", id)
	})

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return s, nil
}

// loadTemplates parses the embedded page templates
func (s *Server) loadTemplates() error {
	tmpl, err := embeds.ParseTemplates(template.FuncMap{
		"T": s.translator.Gettext,
	})
	if err != nil {
		return err
	}
	s.templates = tmpl
	return nil
}

// Handler builds the route table.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	staticFS, err := embeds.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	mux.HandleFunc("GET /{$}", s.handleStatusPage)
	mux.HandleFunc("GET /status/{pk}/timeline", s.PageRequiredMiddleware(s.handleTimeline))
	mux.HandleFunc("POST /ui/click/{nodeID}", s.PageRequiredMiddleware(s.handleClick))
	mux.HandleFunc("GET /status/{pk}/timeline.svg", s.handleTimelineSVG)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)

	return s.TracingMiddleware(mux), nil
}

// Start schedules housekeeping and serves HTTP until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(purgeSchedule, s.purgePages); err != nil {
		return fmt.Errorf("failed to schedule page purge: %w", err)
	}
	if s.config.LogDir != "" {
		if _, err := s.cron.AddFunc("@daily", rotateLogs); err != nil {
			return fmt.Errorf("failed to schedule log rotation: %w", err)
		}
	}
	s.cron.Start()
	defer func() { <-s.cron.Stop().Done() }()

	httpServer := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Starting server on %s (%d statuses, %s charts)",
		s.config.ListenAddr, s.statuses.Len(), s.config.ChartBackend)

	errc := make(chan error, 1)
	go func() { errc <- httpServer.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logging.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) purgePages() {
	if n := s.pages.Purge(); n > 0 {
		logging.Info("Purged %d expired pages, %d live", n, s.pages.Len())
	}
}

func rotateLogs() {
	if err := logging.RotateLogs(); err != nil {
		logging.Error("Failed to rotate logs: %v", err)
	}
}
