package registry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storageerrors "github.com/attachstore/attachstore/pkg/errors"
	"github.com/attachstore/attachstore/pkg/types"
)

// fakeRemote counts container lifecycle calls and can be told to fail.
type fakeRemote struct {
	createCalls  int64
	publishCalls int64
	createDelay  time.Duration
	failCreate   bool
}

func (f *fakeRemote) CreateContainer(ctx context.Context, name string) (*types.ContainerInfo, error) {
	if f.createDelay > 0 {
		time.Sleep(f.createDelay)
	}
	atomic.AddInt64(&f.createCalls, 1)
	if f.failCreate {
		return nil, storageerrors.Newf(storageerrors.ErrCodeContainerCreate,
			"cannot create %q", name)
	}
	return &types.ContainerInfo{Name: name, CreatedAt: time.Now()}, nil
}

func (f *fakeRemote) MakePublic(ctx context.Context, name string) (*types.ContainerInfo, error) {
	atomic.AddInt64(&f.publishCalls, 1)
	return &types.ContainerInfo{
		Name:      name,
		CDNURL:    fmt.Sprintf("http://%s.cdn.example", name),
		CDNSSLURL: fmt.Sprintf("https://%s.ssl.cdn.example", name),
		Public:    true,
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeRemote) ObjectExists(ctx context.Context, container, key string) (bool, error) {
	return false, nil
}

func (f *fakeRemote) ReadObject(ctx context.Context, container, key string) ([]byte, error) {
	return nil, nil
}

func (f *fakeRemote) WriteObject(ctx context.Context, container, key string, r io.Reader, size int64) error {
	return nil
}

func (f *fakeRemote) WriteObjectFromFile(ctx context.Context, container, key, localPath string) error {
	return nil
}

func (f *fakeRemote) DeleteObject(ctx context.Context, container, key string) error {
	return nil
}

func TestRegistry_GetOrCreate_CachesHandle(t *testing.T) {
	fake := &fakeRemote{}
	reg := New(fake, nil, nil)
	ctx := context.Background()

	first, err := reg.GetOrCreate(ctx, "avatars")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.Public)
	assert.Equal(t, "http://avatars.cdn.example", first.CDNURL)

	second, err := reg.GetOrCreate(ctx, "avatars")
	require.NoError(t, err)

	// Same cached handle, exactly one create and one publish.
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.createCalls))
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.publishCalls))
}

func TestRegistry_GetOrCreate_DistinctNames(t *testing.T) {
	fake := &fakeRemote{}
	reg := New(fake, nil, nil)
	ctx := context.Background()

	_, err := reg.GetOrCreate(ctx, "avatars")
	require.NoError(t, err)
	_, err = reg.GetOrCreate(ctx, "documents")
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&fake.createCalls))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_GetOrCreate_ConcurrentSingleCreate(t *testing.T) {
	fake := &fakeRemote{createDelay: 10 * time.Millisecond}
	reg := New(fake, nil, nil)
	ctx := context.Background()

	const callers = 16
	handles := make([]*types.ContainerInfo, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			container, err := reg.GetOrCreate(ctx, "shared")
			if err != nil {
				t.Errorf("GetOrCreate failed: %v", err)
				return
			}
			handles[i] = container
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.createCalls),
		"concurrent lookups must trigger exactly one create")
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.publishCalls))
	for i := 1; i < callers; i++ {
		assert.Same(t, handles[0], handles[i])
	}
}

func TestRegistry_GetOrCreate_CreateFailureNotCached(t *testing.T) {
	fake := &fakeRemote{failCreate: true}
	reg := New(fake, nil, nil)
	ctx := context.Background()

	_, err := reg.GetOrCreate(ctx, "broken")
	require.Error(t, err)
	assert.True(t, storageerrors.IsRemote(err))
	assert.Equal(t, 0, reg.Len())

	// A later attempt retries creation instead of returning a stale error.
	fake.failCreate = false
	container, err := reg.GetOrCreate(ctx, "broken")
	require.NoError(t, err)
	assert.True(t, container.Public)
}

func TestRegistry_LookupAndClear(t *testing.T) {
	fake := &fakeRemote{}
	reg := New(fake, nil, nil)
	ctx := context.Background()

	_, ok := reg.Lookup("avatars")
	assert.False(t, ok)

	_, err := reg.GetOrCreate(ctx, "avatars")
	require.NoError(t, err)

	container, ok := reg.Lookup("avatars")
	assert.True(t, ok)
	assert.Equal(t, "avatars", container.Name)

	reg.Clear()
	assert.Equal(t, 0, reg.Len())
}
