package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/vk/sweepview/internal/archive"
	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/remote"
	"github.com/vk/sweepview/internal/session"
	"github.com/vk/sweepview/internal/tui"
	"github.com/vk/sweepview/internal/viewer"
)

// ErrCheckFailed is returned by the check mode when an animation is unusable.
var ErrCheckFailed = errors.New("check failed")

// Run executes the configured mode until it finishes or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode)
	defer func() {
		if a.logFile != nil {
			_ = a.logFile.Close()
		}
	}()

	if a.config.Mode == ModeRemote {
		a.healthCheckServer(nil)
		defer a.closeHealthCheckServer()
		return a.runRemote(ctx)
	}

	sess, err := session.New(ctx, a.model, session.Options{
		Workers:        a.config.WorkerCount,
		BaseDir:        a.baseDir,
		ThumbnailWidth: a.config.ThumbnailWidth,
		Archive: archive.Options{
			HTTPTimeout: a.config.HTTPTimeout,
			HTTPRetries: a.config.HTTPRetries,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to build session: %w", err)
	}
	defer sess.Close()

	a.healthCheckServer(sess)
	defer a.closeHealthCheckServer()

	switch a.config.Mode {
	case ModeServe:
		return a.runServe(ctx, sess)
	case ModeTUI:
		return a.runTUI(ctx, sess)
	default:
		return a.runCheck(ctx, sess)
	}
}

// runCheck loads every animation, lazy ones included, and reports whether
// each one has all its frames and a frame at the default values.
func (a *App) runCheck(ctx context.Context, sess *session.Session) error {
	a.logger.Info("🚀 Checking animations...")
	loadErr := sess.LoadAll(ctx, true)

	var errs []error
	if loadErr != nil {
		errs = append(errs, loadErr)
	}
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for _, snap := range sess.Snapshots() {
		status := "ok"
		if _, err := sess.Frame(snap.Name); err != nil {
			status = "missing default frame"
			if snap.Error == "" {
				errs = append(errs, err)
			}
		}
		if snap.Error != "" {
			status = snap.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d frames\t%s\t%s\n", snap.Name, snap.State, snap.Loaded, snap.Total, snap.Key, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrCheckFailed, errors.Join(errs...))
	}
	a.logger.Info("🏁 Check finished.")
	return nil
}

// runServe preloads eager animations in the background and serves the viewer.
// The preload is cancelled and awaited before the session can be closed.
func (a *App) runServe(ctx context.Context, sess *session.Session) error {
	srv := viewer.New(ctx, sess, viewer.Options{})
	defer srv.Close()

	preloadCtx, cancel := context.WithCancel(ctx)
	preloaded := make(chan struct{})
	go func() {
		defer close(preloaded)
		if err := sess.LoadAll(preloadCtx, false); err != nil && preloadCtx.Err() == nil {
			a.logger.Error("Preloading failed.", "error", err)
		}
	}()
	defer func() {
		cancel()
		<-preloaded
	}()

	if a.config.QR {
		if err := viewer.WriteQR(a.outW, a.publicURL()); err != nil {
			a.logger.Warn("Failed to print QR code.", "error", err)
		}
	}
	return srv.ListenAndServe(ctx, a.config.Listen)
}

// publicURL is the address printed for phones and browsers.
func (a *App) publicURL() string {
	if a.config.PublicURL != "" {
		return a.config.PublicURL
	}
	host, port, err := net.SplitHostPort(a.config.Listen)
	if err != nil {
		return "http://" + a.config.Listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
		if h, err := os.Hostname(); err == nil {
			host = h
		}
	}
	return "http://" + net.JoinHostPort(host, port)
}

func (a *App) runTUI(ctx context.Context, sess *session.Session) error {
	go func() {
		if err := sess.LoadAll(ctx, false); err != nil {
			a.logger.Error("Preloading failed.", "error", err)
		}
	}()
	return tui.Run(ctx, sess, a.inR, a.outW)
}

// runRemote connects to a viewer, applies the requested changes and reports
// the resulting frame.
func (a *App) runRemote(ctx context.Context) error {
	c, err := remote.Dial(ctx, a.config.URL, remote.Options{Timeout: a.config.HTTPTimeout})
	if err != nil {
		return err
	}
	defer c.Close()

	name := a.config.Animation
	if name == "" {
		tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
		for _, snap := range c.Animations() {
			fmt.Fprintf(tw, "%s\t%s\t%d/%d frames\n", snap.Name, snap.State, snap.Loaded, snap.Total)
		}
		return tw.Flush()
	}

	if a.config.Load {
		a.logger.Info("Loading remote animation.", "animation", name)
		if err := c.Load(ctx, name); err != nil {
			return err
		}
	}
	for _, set := range a.config.Sets {
		if _, err := c.Set(ctx, name, set.Parameter, set.Value); err != nil {
			return err
		}
	}

	frame, err := c.Frame(ctx, name)
	if err != nil {
		return err
	}
	if a.config.Output != "" {
		if err := os.WriteFile(a.config.Output, frame.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
	}
	fmt.Fprintf(a.outW, "%s %s %s %d bytes\n", name, frame.Key, strings.TrimSpace(frame.MIME), len(frame.Data))
	return nil
}
