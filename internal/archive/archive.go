package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/vk/sweepview/internal/ctxlog"
	"resty.dev/v3"
)

// ErrTooLarge is returned when the uncompressed archive does not fit into
// the available memory.
var ErrTooLarge = errors.New("archive does not fit into available memory")

// Options configures how an archive is opened.
type Options struct {
	// HTTPTimeout bounds the download of remote archives. Zero means 2 minutes.
	HTTPTimeout time.Duration
	// HTTPRetries is the number of retries for failed downloads.
	HTTPRetries int
	// AvailableMemory reports the bytes the process may use. It defaults to
	// the available virtual memory of the host.
	AvailableMemory func() (uint64, error)
}

// Archive is an opened zip bundle.
type Archive struct {
	location string
	reader   *zip.Reader
	closer   io.Closer
	size     uint64
}

// Open reads the archive at location, which is either a local path or an
// http(s) URL.
func Open(ctx context.Context, location string, opts Options) (*Archive, error) {
	logger := ctxlog.FromContext(ctx).With("archive", location)

	var (
		ra     io.ReaderAt
		size   int64
		closer io.Closer
	)
	if IsRemote(location) {
		data, err := fetch(ctx, location, opts)
		if err != nil {
			return nil, err
		}
		ra, size = bytes.NewReader(data), int64(len(data))
		logger.Debug("Downloaded archive.", "bytes", size)
	} else {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to stat archive: %w", err)
		}
		ra, size, closer = f, info.Size(), f
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("failed to read zip %q: %w", location, err)
	}

	a := &Archive{location: location, reader: zr, closer: closer}
	for _, f := range zr.File {
		a.size += f.UncompressedSize64
	}

	if err := a.checkMemory(ctx, opts); err != nil {
		a.Close()
		return nil, err
	}
	logger.Debug("Opened archive.", "entries", len(zr.File), "uncompressed_bytes", a.size)
	return a, nil
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Read returns the raw bytes stored at location, a local path or an http(s)
// URL.
func Read(ctx context.Context, location string, opts Options) ([]byte, error) {
	if IsRemote(location) {
		return fetch(ctx, location, opts)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", location, err)
	}
	return data, nil
}

func fetch(ctx context.Context, url string, opts Options) ([]byte, error) {
	timeout := opts.HTTPTimeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(opts.HTTPRetries)
	defer client.Close()

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download %q: %s", url, resp.Status())
	}
	return resp.Bytes(), nil
}

func (a *Archive) checkMemory(ctx context.Context, opts Options) error {
	available := opts.AvailableMemory
	if available == nil {
		available = hostMemory
	}
	free, err := available()
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Could not determine available memory, skipping check.", "error", err)
		return nil
	}
	if a.size > free {
		return fmt.Errorf("%w: %q needs %d bytes, %d available", ErrTooLarge, a.location, a.size, free)
	}
	if a.size > free/2 {
		ctxlog.FromContext(ctx).Warn("Archive uses more than half of the available memory.",
			"archive", a.location, "uncompressed_bytes", a.size, "available_bytes", free)
	}
	return nil
}

func hostMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// Len returns the number of entries, directories included.
func (a *Archive) Len() int {
	return len(a.reader.File)
}

// UncompressedSize returns the sum of all entry sizes.
func (a *Archive) UncompressedSize() uint64 {
	return a.size
}

// Close releases the underlying file of a local archive.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}
