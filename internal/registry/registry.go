package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/attachstore/attachstore/internal/metrics"
	"github.com/attachstore/attachstore/pkg/types"
)

// Registry maps container names to cached handles. It is constructed once
// at process start and passed by reference to each attachment backend, so
// tests get isolation from a fresh registry instead of package-level state.
type Registry struct {
	mu         sync.Mutex
	containers map[string]*types.ContainerInfo
	locks      map[string]*sync.Mutex

	client    types.RemoteClient
	logger    *slog.Logger
	collector *metrics.Collector
}

// New creates an empty registry backed by client.
func New(client types.RemoteClient, collector *metrics.Collector, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		containers: make(map[string]*types.ContainerInfo),
		locks:      make(map[string]*sync.Mutex),
		client:     client,
		logger:     logger.With("component", "registry"),
		collector:  collector,
	}
}

// GetOrCreate returns the cached handle for name, creating and publishing
// the container on first use. The create-then-publish sequence runs under
// a per-name lock; a cache hit never re-checks public visibility.
func (r *Registry) GetOrCreate(ctx context.Context, name string) (*types.ContainerInfo, error) {
	r.mu.Lock()
	if container, ok := r.containers[name]; ok {
		r.mu.Unlock()
		return container, nil
	}
	nameLock, ok := r.locks[name]
	if !ok {
		nameLock = &sync.Mutex{}
		r.locks[name] = nameLock
	}
	r.mu.Unlock()

	nameLock.Lock()
	defer nameLock.Unlock()

	// Another caller may have finished creation while we waited.
	r.mu.Lock()
	if container, ok := r.containers[name]; ok {
		r.mu.Unlock()
		return container, nil
	}
	r.mu.Unlock()

	start := time.Now()
	if _, err := r.client.CreateContainer(ctx, name); err != nil {
		r.recordCreate(start, err)
		return nil, err
	}

	// Public immediately after creation so reads never depend on a second
	// publish round trip later.
	container, err := r.client.MakePublic(ctx, name)
	if err != nil {
		r.recordCreate(start, err)
		return nil, err
	}
	r.recordCreate(start, nil)

	r.mu.Lock()
	r.containers[name] = container
	r.mu.Unlock()

	r.logger.Info("container ready",
		"container", name,
		"cdn_url", container.CDNURL,
		"elapsed", time.Since(start))

	return container, nil
}

// Lookup returns the cached handle for name without creating it.
func (r *Registry) Lookup(name string) (*types.ContainerInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	container, ok := r.containers[name]
	return container, ok
}

// Len returns the number of cached containers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}

// Clear drops all cached handles.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers = make(map[string]*types.ContainerInfo)
	r.locks = make(map[string]*sync.Mutex)
}

func (r *Registry) recordCreate(start time.Time, err error) {
	r.collector.RecordRemoteOperation("create_container", time.Since(start), err)
}
