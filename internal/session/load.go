package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/sweepview/internal/archive"
	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/seqindex"
	"github.com/vk/sweepview/internal/thumbnail"
	"golang.org/x/sync/errgroup"
)

// Load streams the archive of the named animation into its index. It fails
// with seqindex.ErrAlreadyLoading or seqindex.ErrAlreadyLoaded when a load
// already started, and with ErrIncomplete when the archive lacks frames.
// Loading an animation whose earlier load failed repeats that failure and
// publishes it again. Synced partners start loading as soon as the first
// frame arrives.
func (s *Session) Load(ctx context.Context, name string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot load animation %q", ErrClosed, name)
	}
	a, err := s.get(name)
	if err == nil && a.loadErr != nil && !a.loading {
		err = fmt.Errorf("animation %q failed to load earlier: %w", name, a.loadErr)
		s.publish(Event{Kind: EventError, Animation: name, Err: err})
	}
	if err == nil {
		err = a.index.BeginLoad()
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	a.loading = true
	s.mu.Unlock()

	err = s.load(ctx, a)

	s.mu.Lock()
	defer s.mu.Unlock()
	a.loading = false
	a.loadErr = err
	if err != nil {
		s.publish(Event{Kind: EventError, Animation: name, Err: err})
	}
	return err
}

func (s *Session) load(ctx context.Context, a *animation) error {
	ctx = ctxlog.With(ctx, "animation", a.def.Name)
	logger := ctxlog.FromContext(ctx)
	location := s.resolve(a.def.Archive)
	logger.Info("Loading animation.", "archive", location)

	arc, err := archive.Open(ctx, location, s.opts.Archive)
	if err != nil {
		return err
	}
	defer arc.Close()

	stats, err := arc.Stream(ctx, s.opts.Workers, func(e archive.Entry) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return a.index.InsertFrame(e, e.Key())
	})
	if err != nil {
		return fmt.Errorf("animation %q: %w", a.def.Name, err)
	}

	s.mu.Lock()
	loaded, total := a.index.Loaded(), a.index.ExpectedTotal()
	s.mu.Unlock()
	if loaded < total {
		return fmt.Errorf("%w: animation %q has %d of %d frames", ErrIncomplete, a.def.Name, loaded, total)
	}
	logger.Info("Animation loaded.", "frames", loaded, "skipped_entries", stats.Skipped)
	return nil
}

// LoadAll loads every animation and waits for loads started by synced
// partners. Lazy animations are included only when lazy is true. Loads
// already started elsewhere are not treated as failures.
func (s *Session) LoadAll(ctx context.Context, lazy bool) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range s.order {
		s.mu.Lock()
		skip := s.anims[name].def.Lazy && !lazy
		s.mu.Unlock()
		if skip {
			continue
		}
		g.Go(func() error {
			err := s.Load(gctx, name)
			if errors.Is(err, seqindex.ErrAlreadyLoading) || errors.Is(err, seqindex.ErrAlreadyLoaded) {
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.background.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, name := range s.order {
		if err := s.anims[name].loadErr; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Thumbnail returns the PNG preview of the named animation. It is fetched
// once and cached.
func (s *Session) Thumbnail(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	a, err := s.get(name)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if a.thumbnail != nil {
		data := a.thumbnail
		s.mu.Unlock()
		return data, nil
	}
	location := thumbnail.Location(s.resolve(a.def.Archive), s.resolve(a.def.Thumbnail))
	s.mu.Unlock()

	data, err := thumbnail.Fetch(ctx, location, s.opts.ThumbnailWidth, s.opts.Archive)
	if err != nil {
		return nil, fmt.Errorf("animation %q: %w", name, err)
	}

	s.mu.Lock()
	a.thumbnail = data
	s.mu.Unlock()
	return data, nil
}
