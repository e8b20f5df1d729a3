package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/syncuphq/syncup-analytics/internal/analytics"
)

//go:embed static/*
var staticFiles embed.FS

// Server serves the interactive dashboard: a static single page plus
// JSON APIs that recompute the aggregations per request with the
// user-selected filters.
type Server struct {
	engine *analytics.Engine
	logger *zap.Logger
	router *http.ServeMux
	port   int
}

func NewServer(engine *analytics.Engine, logger *zap.Logger, port int) *Server {
	s := &Server{
		engine: engine,
		logger: logger,
		router: http.NewServeMux(),
		port:   port,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.HandleFunc("GET /{$}", s.handleIndex)

	s.router.HandleFunc("GET /api/overview", s.handleAPIOverview)
	s.router.HandleFunc("GET /api/funnel", s.handleAPIFunnel)
	s.router.HandleFunc("GET /api/abtest", s.handleAPIABTest)
	s.router.HandleFunc("GET /api/cohorts", s.handleAPICohorts)
	s.router.HandleFunc("GET /api/users", s.handleAPIUsers)

	s.router.HandleFunc("GET /api/export/users", s.handleAPIExportUsers)
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting dashboard", zap.String("url", fmt.Sprintf("http://localhost:%d", s.port)))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown", zap.Error(err))
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
