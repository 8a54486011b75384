package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/vk/sweepview/internal/archive"
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/control"
	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/notify"
	"github.com/vk/sweepview/internal/param"
	"github.com/vk/sweepview/internal/seqindex"
	"github.com/vk/sweepview/internal/syncbridge"
)

// Options tunes loading.
type Options struct {
	// Workers is the number of goroutines decoding archive entries.
	Workers int
	// BaseDir resolves relative local archive and thumbnail paths.
	BaseDir string
	// ThumbnailWidth is the maximum width of rendered thumbnails.
	ThumbnailWidth int
	Archive        archive.Options
}

type animation struct {
	def      *config.Animation
	index    *seqindex.Index
	controls []control.Adapter
	// byParam maps every parameter name to the control driving it.
	byParam map[string]control.Adapter
	byName  map[string]control.Adapter

	loading   bool
	loadErr   error
	thumbnail []byte
}

// Session is the runtime of a set of animations.
type Session struct {
	ctx  context.Context
	opts Options

	mu      sync.Mutex
	anims   map[string]*animation
	order   []string
	bridges []*syncbridge.Bridge
	events  *notify.Bus[Event]

	// background tracks loads started by synced partners. closed stops new
	// ones from being added once Close waits on it.
	background sync.WaitGroup
	closed     bool
}

// New builds the indices, controls and bridges described by model. ctx is
// used for logging and for loads started in the background.
func New(ctx context.Context, model *config.Model, opts Options) (*Session, error) {
	logger := ctxlog.FromContext(ctx)
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	s := &Session{
		ctx:    ctx,
		opts:   opts,
		anims:  make(map[string]*animation),
		events: notify.New[Event](),
	}

	for _, def := range model.Animations {
		if _, dup := s.anims[def.Name]; dup {
			return nil, fmt.Errorf("animation %q is declared more than once", def.Name)
		}
		a, err := s.build(def)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", def.Name, err)
		}
		s.anims[def.Name] = a
		s.order = append(s.order, def.Name)
		logger.Debug("Animation configured.", "animation", def.Name, "parameters", len(a.index.Parameters()), "expected_frames", a.index.ExpectedTotal())
	}

	for _, sc := range model.Syncs {
		if err := s.bind(sc); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) build(def *config.Animation) (*animation, error) {
	a := &animation{
		def:     def,
		index:   seqindex.New(def.Name),
		byParam: make(map[string]control.Adapter),
		byName:  make(map[string]control.Adapter),
	}

	for _, c := range def.Controls {
		adapter, err := control.FromConfig(c)
		if err != nil {
			return nil, err
		}
		if _, dup := a.byName[c.Name]; dup {
			return nil, fmt.Errorf("control %q is declared more than once", c.Name)
		}
		if err := a.index.AddControl(adapter); err != nil {
			return nil, err
		}
		a.controls = append(a.controls, adapter)
		a.byName[c.Name] = adapter
		for _, p := range adapter.Parameters() {
			a.byParam[p.Name()] = adapter
			p.OnChange(s.valueChanged(a, p))
		}
	}

	a.index.OnFrameLoaded(func(p seqindex.Progress) {
		s.publish(Event{Kind: EventProgress, Animation: def.Name, Loaded: p.Loaded, Total: p.Total})
	})
	a.index.OnLoadingFinished(func(p seqindex.Progress) {
		s.publish(Event{Kind: EventReady, Animation: def.Name, Loaded: p.Loaded, Total: p.Total})
		s.publishFrame(a)
	})
	return a, nil
}

func (s *Session) valueChanged(a *animation, p *param.Parameter) func(float64) {
	return func(v float64) {
		s.publish(Event{Kind: EventValue, Animation: a.def.Name, Parameter: p.Name(), Value: v})
		if a.index.State() == seqindex.StateComplete {
			s.publishFrame(a)
		}
	}
}

func (s *Session) publishFrame(a *animation) {
	f, err := a.frame()
	if err != nil {
		s.publish(Event{Kind: EventError, Animation: a.def.Name, Err: err})
		return
	}
	s.publish(Event{Kind: EventFrame, Animation: a.def.Name, Frame: f})
}

func (s *Session) bind(sc *config.Sync) error {
	left, ok := s.anims[sc.Left]
	if !ok {
		return fmt.Errorf("sync %q: %w %q", sc.Name, ErrUnknownAnimation, sc.Left)
	}
	right, ok := s.anims[sc.Right]
	if !ok {
		return fmt.Errorf("sync %q: %w %q", sc.Name, ErrUnknownAnimation, sc.Right)
	}

	br, err := syncbridge.Bind(left.index, sc.LeftParams, right.index, sc.RightParams,
		syncbridge.WithErrorHandler(func(err error) {
			ctxlog.FromContext(s.ctx).Warn("Synced value was rejected.", "sync", sc.Name, "error", err)
			s.publish(Event{Kind: EventError, Animation: sc.Name, Err: err})
		}),
		syncbridge.WithLoadFollower(func(ix *seqindex.Index) {
			s.follow(ix.Name())
		}),
	)
	if err != nil {
		return fmt.Errorf("sync %q: %w", sc.Name, err)
	}
	s.bridges = append(s.bridges, br)
	return nil
}

// follow starts loading name in the background. It is called with s.mu
// held, from inside a partner's frame insertion.
func (s *Session) follow(name string) {
	if s.closed {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		err := s.Load(s.ctx, name)
		if err != nil && !errors.Is(err, seqindex.ErrAlreadyLoading) && !errors.Is(err, seqindex.ErrAlreadyLoaded) {
			ctxlog.FromContext(s.ctx).Error("Synced animation failed to load.", "animation", name, "error", err)
		}
	}()
}

// Names returns the animation names in declaration order.
func (s *Session) Names() []string {
	return append([]string(nil), s.order...)
}

// Close unbinds synced parameters and waits for background loads. Later
// loads fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	for _, br := range s.bridges {
		br.Close()
	}
	s.bridges = nil
	s.mu.Unlock()
	s.background.Wait()
}

// resolve makes a local relative location relative to BaseDir.
func (s *Session) resolve(location string) string {
	if location == "" || archive.IsRemote(location) || filepath.IsAbs(location) || s.opts.BaseDir == "" {
		return location
	}
	return filepath.Join(s.opts.BaseDir, location)
}

// get must be called with s.mu held.
func (s *Session) get(name string) (*animation, error) {
	a, ok := s.anims[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	return a, nil
}

func (a *animation) frame() (*Frame, error) {
	payload, err := a.index.Lookup()
	if err != nil {
		return nil, err
	}
	entry, ok := payload.(archive.Entry)
	if !ok {
		return nil, fmt.Errorf("animation %q holds a %T instead of an archive entry", a.def.Name, payload)
	}
	return &Frame{Animation: a.def.Name, Key: a.index.CompositeKey(), Entry: entry}, nil
}
