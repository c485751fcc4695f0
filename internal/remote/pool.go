package remote

import (
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ClientPool manages a bounded pool of S3 clients shared by concurrent
// attachment operations.
type ClientPool struct {
	mu          sync.RWMutex
	clients     chan *s3.Client
	factory     func() (*s3.Client, error)
	maxSize     int
	currentSize int
	closed      bool

	stats PoolStats
}

// PoolStats tracks client pool statistics.
type PoolStats struct {
	Idle      int       `json:"idle"`
	Total     int       `json:"total"`
	MaxSize   int       `json:"max_size"`
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Created   int64     `json:"created"`
	Destroyed int64     `json:"destroyed"`
	LastError string    `json:"last_error"`
	LastErrAt time.Time `json:"last_error_at"`
}

// NewClientPool creates a client pool of at most maxSize clients.
func NewClientPool(maxSize int, factory func() (*s3.Client, error)) (*ClientPool, error) {
	if maxSize <= 0 {
		maxSize = 8
	}
	if factory == nil {
		return nil, fmt.Errorf("client factory cannot be nil")
	}

	return &ClientPool{
		clients: make(chan *s3.Client, maxSize),
		factory: factory,
		maxSize: maxSize,
		stats:   PoolStats{MaxSize: maxSize},
	}, nil
}

// Get retrieves a client from the pool, creating one when the pool is
// empty and below capacity. Returns nil when the pool is closed or the
// factory fails.
func (p *ClientPool) Get() *s3.Client {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil
	}
	p.mu.RUnlock()

	select {
	case client := <-p.clients:
		p.mu.Lock()
		p.stats.Hits++
		p.mu.Unlock()
		return client
	default:
	}

	client, err := p.create()
	if err != nil {
		p.mu.Lock()
		p.stats.Misses++
		p.stats.LastError = err.Error()
		p.stats.LastErrAt = time.Now()
		p.mu.Unlock()
		return nil
	}
	return client
}

// Put returns a client to the pool; clients beyond capacity are discarded.
func (p *ClientPool) Put(client *s3.Client) {
	if client == nil {
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return
	}
	p.mu.RUnlock()

	select {
	case p.clients <- client:
	default:
		p.mu.Lock()
		p.stats.Destroyed++
		p.currentSize--
		p.mu.Unlock()
	}
}

// Stats returns current pool statistics.
func (p *ClientPool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := p.stats
	stats.Total = p.currentSize
	stats.Idle = len(p.clients)
	return stats
}

// Close closes the pool. S3 clients need no explicit teardown.
func (p *ClientPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.clients)
	for range p.clients {
	}
	return nil
}

func (p *ClientPool) create() (*s3.Client, error) {
	p.mu.Lock()
	if p.currentSize >= p.maxSize {
		p.mu.Unlock()
		// Over capacity: hand out an unpooled client rather than block.
		return p.factory()
	}
	p.currentSize++
	p.stats.Created++
	p.mu.Unlock()

	client, err := p.factory()
	if err != nil {
		p.mu.Lock()
		p.currentSize--
		p.mu.Unlock()
		return nil, err
	}
	return client, nil
}
