package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/notify"
	"github.com/vk/sweepview/internal/seqindex"
	"github.com/vk/sweepview/internal/session"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	outboxSize      = 256
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// AllowedOrigin is sent in CORS headers of the socket.io endpoint.
	AllowedOrigin string
	// PingInterval overrides the engine.io heartbeat when positive.
	PingInterval time.Duration
}

// Server broadcasts session events to socket.io clients and applies their
// requests to the session.
type Server struct {
	ctx  context.Context
	sess *session.Session
	opts Options
	io   *socket.Server
	sub  notify.Handle

	outbox chan message
	done   chan struct{}
	closed sync.Once

	// background tracks loads and thumbnail fetches started by clients.
	background sync.WaitGroup
	forwarder  sync.WaitGroup
}

// New creates a Server for sess. Close releases it.
func New(ctx context.Context, sess *session.Session, opts Options) *Server {
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}
	s := &Server{
		ctx:    ctx,
		sess:   sess,
		opts:   opts,
		io:     socket.NewServer(nil, nil),
		outbox: make(chan message, outboxSize),
		done:   make(chan struct{}),
	}
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		s.connect(client)
	})
	s.sub = sess.Subscribe(s.enqueue)
	s.forwarder.Add(1)
	go s.forward()
	return s
}

// enqueue runs with the session lock held, so it only hands the message to
// the forwarder.
func (s *Server) enqueue(e session.Event) {
	m, ok := toMessage(e)
	if !ok {
		return
	}
	select {
	case s.outbox <- m:
	case <-s.done:
	}
}

func (s *Server) forward() {
	defer s.forwarder.Done()
	for {
		select {
		case m := <-s.outbox:
			s.io.Emit(m.event, m.payload)
		case <-s.done:
			return
		}
	}
}

func (s *Server) connect(client *socket.Socket) {
	log := ctxlog.FromContext(ctxlog.With(s.ctx, "client", string(client.Id())))
	log.Info("Client connected.")

	snaps := s.sess.Snapshots()
	if err := client.Emit(EventAnimations, snaps); err != nil {
		log.Warn("Failed to send animations.", "error", err)
	}
	for _, snap := range snaps {
		switch {
		case snap.State == seqindex.StateComplete.String():
			if f, err := s.sess.Frame(snap.Name); err == nil {
				_ = client.Emit(EventFrame, frameMessage(f))
			}
		case snap.Lazy && !snap.Loading:
			s.sendThumbnail(client, snap.Name)
		}
	}

	for event, h := range s.handlers() {
		client.On(event, s.listener(client, event, h))
	}
	client.On("disconnect", func(reason ...any) {
		log.Info("Client disconnected.", "reason", fmt.Sprint(reason...))
	})
}

func (s *Server) sendThumbnail(client *socket.Socket, name string) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		data, err := s.sess.Thumbnail(s.ctx, name)
		if err != nil {
			ctxlog.FromContext(s.ctx).Debug("No thumbnail.", "animation", name, "error", err)
			return
		}
		_ = client.Emit(EventThumbnail, thumbnailMessage(name, data))
	}()
}

// listener adapts h to a socket.io listener. Clients emitting with an ack
// get a Reply; others only see failures as error events.
func (s *Server) listener(client *socket.Socket, event string, h handler) func(...any) {
	return func(args ...any) {
		var ack socket.Ack
		if n := len(args); n > 0 {
			if a, ok := args[n-1].(socket.Ack); ok {
				ack = a
				args = args[:n-1]
			}
		}
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}

		name, err := h(arg)
		if err != nil {
			ctxlog.FromContext(s.ctx).Debug("Request failed.", "event", event, "error", err)
		}
		if ack == nil {
			if err != nil {
				_ = client.Emit(EventError, ErrorMessage{Animation: name, Message: err.Error()})
			}
			return
		}
		ack([]any{s.reply(name, err)}, nil)
	}
}

func (s *Server) reply(name string, err error) Reply {
	var r Reply
	if err != nil {
		r.Error = err.Error()
	}
	if snap, serr := s.sess.Snapshot(name); serr == nil {
		r.Snapshot = &snap
	}
	return r
}

// Handler returns the HTTP handler serving socket.io and the plain endpoints.
func (s *Server) Handler() http.Handler {
	opts := socket.DefaultServerOptions()
	opts.SetCors(&types.Cors{Origin: s.opts.AllowedOrigin})
	opts.SetTransports(types.NewSet("polling", "websocket"))
	if s.opts.PingInterval > 0 {
		opts.SetPingInterval(s.opts.PingInterval)
	}

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io.ServeHandler(opts))
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/animations", s.animationsHandler)
	mux.HandleFunc("/frame/", s.frameHandler)
	mux.HandleFunc("/thumbnail/", s.thumbnailHandler)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	logger := ctxlog.FromContext(ctx)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Viewer listening.", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("viewer server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down viewer...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("viewer shutdown failed: %w", err)
	}
	return nil
}

// Close stops broadcasting and waits for background work started by
// clients.
func (s *Server) Close() {
	s.closed.Do(func() {
		s.sess.Unsubscribe(s.sub)
		close(s.done)
		s.forwarder.Wait()
		s.io.Close(nil)
		s.background.Wait()
	})
}
