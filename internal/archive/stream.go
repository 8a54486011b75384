package archive

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/zip"
	"github.com/vk/sweepview/internal/ctxlog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Entry is one decoded archive member.
type Entry struct {
	// Name is the path of the entry inside the archive.
	Name string
	Kind Kind
	MIME string
	Data []byte
	// Width and Height are set for images.
	Width  int
	Height int
}

// Key returns the frame key encoded in the entry name.
func (e Entry) Key() string {
	return Key(e.Name)
}

// Stats summarizes a Stream call.
type Stats struct {
	Delivered int
	Skipped   int
}

// Stream decodes every entry on up to workers goroutines and calls sink for
// each of them from the calling goroutine, one at a time, in completion
// order. Directories are ignored; entries of unknown kind are logged and
// skipped. The first error from a worker or from sink stops the stream.
func (a *Archive) Stream(ctx context.Context, workers int, sink func(Entry) error) (Stats, error) {
	logger := ctxlog.FromContext(ctx)
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var skipped atomic.Int64
	results := make(chan Entry)
	waitErr := make(chan error, 1)

	go func() {
		for _, f := range a.reader.File {
			if gctx.Err() != nil {
				break
			}
			if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
				continue
			}
			kind, mime := KindOf(f.Name)
			if kind == KindUnknown {
				logger.Warn("Archive contains an entry of unknown kind, ignoring it.", "archive", a.location, "entry", f.Name)
				skipped.Add(1)
				continue
			}
			g.Go(func() error {
				e, err := decode(f, kind, mime)
				if err != nil {
					return err
				}
				select {
				case results <- e:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		waitErr <- g.Wait()
		close(results)
	}()

	var (
		stats   Stats
		sinkErr error
	)
	for e := range results {
		if sinkErr != nil {
			continue
		}
		if err := sink(e); err != nil {
			sinkErr = err
			cancel()
			continue
		}
		stats.Delivered++
	}
	err := <-waitErr
	stats.Skipped = int(skipped.Load())

	if sinkErr != nil {
		return stats, sinkErr
	}
	if err != nil {
		return stats, fmt.Errorf("failed to stream archive %q: %w", a.location, err)
	}
	logger.Debug("Streamed archive.", "archive", a.location, "delivered", stats.Delivered, "skipped", stats.Skipped)
	return stats, nil
}

func decode(f *zip.File, kind Kind, mime string) (Entry, error) {
	rc, err := f.Open()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to open entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read entry %q: %w", f.Name, err)
	}

	e := Entry{Name: f.Name, Kind: kind, MIME: mime, Data: data}
	if kind == KindImage {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Entry{}, fmt.Errorf("failed to decode image %q: %w", f.Name, err)
		}
		e.Width, e.Height = cfg.Width, cfg.Height
	}
	return e, nil
}
