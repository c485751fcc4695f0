package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/attachstore/attachstore/internal/cdn"
	"github.com/attachstore/attachstore/internal/metrics"
	"github.com/attachstore/attachstore/internal/registry"
	storageerrors "github.com/attachstore/attachstore/pkg/errors"
	"github.com/attachstore/attachstore/pkg/types"
)

// Options configures one attachment backend instance.
type Options struct {
	// Container names the remote container holding this attachment's
	// objects.
	Container string

	// PathTemplate is the object path template; its :style token is
	// resolved per style. Interpolation of any other tokens belongs to
	// the host framework and must happen before the template reaches
	// this backend.
	PathTemplate string

	// PathFunc overrides PathTemplate interpolation when set.
	PathFunc func(style string) string

	// SSL selects the SSL CDN base for URLs.
	SSL bool

	// SSLFunc, when set, decides SSL per URL computation (e.g. a user
	// preference on the owning record). It is consulted on every call,
	// never cached.
	SSLFunc func() bool

	// CNAME overrides the container CDN hosts verbatim when set.
	CNAME string
}

// Backend persists attachment content in a remote container. Writes and
// deletes are buffered until the host framework flushes them; reads and
// existence checks go to the remote store directly.
type Backend struct {
	opts      Options
	registry  *registry.Registry
	client    types.RemoteClient
	urls      *cdn.Builder
	logger    *slog.Logger
	collector *metrics.Collector

	// Resolved once by Init; pure reads afterwards.
	container *types.ContainerInfo

	queue queue
}

// New creates a backend instance. Missing collaborators are configuration
// errors surfaced immediately rather than deferred to first use.
func New(opts Options, reg *registry.Registry, client types.RemoteClient, collector *metrics.Collector, logger *slog.Logger) (*Backend, error) {
	if client == nil {
		return nil, storageerrors.New(storageerrors.ErrCodeClientUnavailable,
			"no remote storage client is configured; construct one with remote.New and pass it to the backend").
			WithComponent("attachment")
	}
	if reg == nil {
		return nil, storageerrors.New(storageerrors.ErrCodeClientUnavailable,
			"no container registry is configured; construct one with registry.New and share it across backends").
			WithComponent("attachment")
	}
	if opts.Container == "" {
		return nil, storageerrors.New(storageerrors.ErrCodeConfigValidation,
			"attachment backend requires a container name").
			WithComponent("attachment")
	}
	if opts.PathFunc == nil && !strings.Contains(opts.PathTemplate, ":style") {
		return nil, storageerrors.New(storageerrors.ErrCodeConfigValidation,
			"path template must contain the :style token").
			WithComponent("attachment")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Backend{
		opts:      opts,
		registry:  reg,
		client:    client,
		urls:      cdn.NewBuilder(opts.CNAME),
		logger:    logger.With("component", "attachment", "container", opts.Container),
		collector: collector,
		queue:     newQueue(),
	}, nil
}

// Init resolves the container handle through the shared registry. It runs
// once per instance; the handle and derived URLs are pure reads afterwards.
func (b *Backend) Init(ctx context.Context) error {
	if b.container != nil {
		return nil
	}
	container, err := b.registry.GetOrCreate(ctx, b.opts.Container)
	if err != nil {
		return err
	}
	b.container = container
	return nil
}

// Path resolves the object path for a style.
func (b *Backend) Path(style string) string {
	if b.opts.PathFunc != nil {
		return b.opts.PathFunc(style)
	}
	return strings.ReplaceAll(b.opts.PathTemplate, ":style", style)
}

// URL returns the public retrieval URL for a style. The SSL predicate is
// evaluated on every call.
func (b *Backend) URL(style string) (string, error) {
	if b.container == nil {
		return "", storageerrors.New(storageerrors.ErrCodeNotInitialized,
			"backend is not initialized; call Init before URL").
			WithComponent("attachment").WithContainer(b.opts.Container)
	}
	return b.urls.ObjectURL(b.container, b.useSSL(), b.Path(style)), nil
}

// QueueWrite stages f for upload under style without any remote call. A
// pending write for the same style is superseded.
func (b *Backend) QueueWrite(style string, f *os.File) {
	if !b.queue.queueWrite(style, f) {
		b.collector.AddPending("writes", 1)
	}
	b.logger.Debug("write queued", "style", style, "file", f.Name())
}

// QueueDelete stages an object path for deletion without any remote call.
func (b *Backend) QueueDelete(path string) {
	b.queue.queueDelete(path)
	b.collector.AddPending("deletes", 1)
	b.logger.Debug("delete queued", "path", path)
}

// Dirty reports whether any writes or deletes are pending.
func (b *Backend) Dirty() bool {
	return b.queue.dirty()
}

// PendingWrites returns the number of styles with a pending write.
func (b *Backend) PendingWrites() int {
	return len(b.queue.writes)
}

// PendingDeletes returns the number of pending deletions.
func (b *Backend) PendingDeletes() int {
	return len(b.queue.deletes)
}

// FlushWrites commits every pending write to the remote store and clears
// the write set. Order across styles is unspecified. The flush is
// fail-fast: the first failing upload aborts it, the failing and
// unattempted entries stay pending, and the error propagates unchanged.
func (b *Backend) FlushWrites(ctx context.Context) error {
	committed := 0
	for style, f := range b.queue.writes {
		path := b.Path(style)
		start := time.Now()
		err := b.client.WriteObjectFromFile(ctx, b.opts.Container, path, f.Name())
		b.collector.RecordRemoteOperation("write_object", time.Since(start), err)
		if err != nil {
			b.collector.RecordFlush("writes", committed, err)
			b.collector.AddPending("writes", -committed)
			return err
		}
		delete(b.queue.writes, style)
		committed++
		b.logger.Debug("write flushed", "style", style, "path", path)
	}

	b.collector.RecordFlush("writes", committed, nil)
	b.collector.AddPending("writes", -committed)
	return nil
}

// FlushDeletes removes every pending object from the remote store and
// clears the delete set. Deleting a path that does not exist is success.
func (b *Backend) FlushDeletes(ctx context.Context) error {
	committed := 0
	for len(b.queue.deletes) > 0 {
		path := b.queue.deletes[0]
		start := time.Now()
		err := b.client.DeleteObject(ctx, b.opts.Container, path)
		b.collector.RecordRemoteOperation("delete_object", time.Since(start), err)
		if err != nil {
			b.collector.RecordFlush("deletes", committed, err)
			b.collector.AddPending("deletes", -committed)
			return err
		}
		b.queue.deletes = b.queue.deletes[1:]
		committed++
		b.logger.Debug("delete flushed", "path", path)
	}

	b.queue.deletes = nil
	b.collector.RecordFlush("deletes", committed, nil)
	b.collector.AddPending("deletes", -committed)
	return nil
}

// Exists reports whether the object for style is present in the remote
// store. Pending writes are not consulted.
func (b *Backend) Exists(ctx context.Context, style string) (bool, error) {
	start := time.Now()
	exists, err := b.client.ObjectExists(ctx, b.opts.Container, b.Path(style))
	b.collector.RecordRemoteOperation("object_exists", time.Since(start), err)
	return exists, err
}

// Read fetches the remote content for style. Pending writes are not
// consulted: content queued but not yet flushed is invisible here.
func (b *Backend) Read(ctx context.Context, style string) ([]byte, error) {
	start := time.Now()
	data, err := b.client.ReadObject(ctx, b.opts.Container, b.Path(style))
	b.collector.RecordRemoteOperation("read_object", time.Since(start), err)
	return data, err
}

// ToFile returns the content for style as a local file. A pending write is
// returned verbatim, rewound to its start; it is still queued and must not
// be closed by the caller before the flush. Otherwise the remote object is
// downloaded into a fresh temporary file positioned at its start, which the
// caller owns and must remove.
func (b *Backend) ToFile(ctx context.Context, style string) (*os.File, error) {
	if f, ok := b.queue.writes[style]; ok {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind queued file for style %q: %w", style, err)
		}
		return f, nil
	}

	data, err := b.Read(ctx, style)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "attachstore-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file for style %q: %w", style, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write temporary file for style %q: %w", style, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to rewind temporary file for style %q: %w", style, err)
	}
	return tmp, nil
}

func (b *Backend) useSSL() bool {
	if b.opts.SSLFunc != nil {
		return b.opts.SSLFunc()
	}
	return b.opts.SSL
}
