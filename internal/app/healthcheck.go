package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/seqindex"
	"github.com/vk/sweepview/internal/session"
)

// healthHandler reports that the process is alive.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// readyHandler reports whether every eagerly loaded animation is complete.
func readyHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var pending []string
		for _, snap := range sess.Snapshots() {
			if !snap.Lazy && snap.State != seqindex.StateComplete.String() {
				pending = append(pending, fmt.Sprintf("%s %d/%d", snap.Name, snap.Loaded, snap.Total))
			}
		}
		if len(pending) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			for _, p := range pending {
				fmt.Fprintln(w, p)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "READY")
	}
}

// healthCheckServer initializes and runs the health check HTTP server.
// sess may be nil when no animations are served.
func (app *App) healthCheckServer(sess *session.Session) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)
	if sess != nil {
		mux.Handle("/ready", readyHandler(sess))
	}

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing health check server...")

	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
