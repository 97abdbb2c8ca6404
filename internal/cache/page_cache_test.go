package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zaqqye/portfolio_backend/internal/metrics"
)

func newCache(t *testing.T) *PageCache {
	t.Helper()
	pc, err := NewPageCache(1<<20, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pc.Close)
	return pc
}

func TestPageCache_SetGet(t *testing.T) {
	pc := newCache(t)
	ok := pc.Set("/projects", Page{Body: []byte("list"), Tags: []string{TagProjects}}, pc.Epoch())
	require.True(t, ok)

	got, hit := pc.Get("/projects")
	require.True(t, hit)
	assert.Equal(t, "list", string(got.Body))
}

func TestPageCache_InvalidateByTag(t *testing.T) {
	pc := newCache(t)
	e := pc.Epoch()
	require.True(t, pc.Set("/projects", Page{Body: []byte("a"), Tags: []string{TagProjects}}, e))
	require.True(t, pc.Set("/projects/demo", Page{Body: []byte("b"), Tags: []string{TagProjects, ProjectTag("demo")}}, e))
	require.True(t, pc.Set("/blogs", Page{Body: []byte("c"), Tags: []string{TagBlogs}}, e))

	assert.Equal(t, 1, pc.Invalidate(ProjectTag("demo")))
	_, hit := pc.Get("/projects/demo")
	assert.False(t, hit)
	_, hit = pc.Get("/projects")
	assert.True(t, hit)

	assert.Equal(t, 1, pc.Invalidate(TagProjects))
	_, hit = pc.Get("/projects")
	assert.False(t, hit)
	_, hit = pc.Get("/blogs")
	assert.True(t, hit)
}

func TestPageCache_StaleRenderRejected(t *testing.T) {
	pc := newCache(t)
	epoch := pc.Epoch()
	pc.Invalidate(TagProjects)

	assert.False(t, pc.Set("/projects", Page{Body: []byte("stale"), Tags: []string{TagProjects}}, epoch))
	_, hit := pc.Get("/projects")
	assert.False(t, hit)
}

func TestPageCache_Purge(t *testing.T) {
	pc := newCache(t)
	require.True(t, pc.Set("/", Page{Body: []byte("home"), Tags: []string{TagProfile}}, pc.Epoch()))
	pc.Purge()
	_, hit := pc.Get("/")
	assert.False(t, hit)
	assert.Equal(t, 0, pc.Invalidate(TagProfile))
}

type recordingPublisher struct{ got [][]string }

func (r *recordingPublisher) Publish(tags []string) { r.got = append(r.got, tags) }

func TestRevalidator(t *testing.T) {
	pc := newCache(t)
	require.True(t, pc.Set("/blogs", Page{Body: []byte("x"), Tags: []string{TagBlogs}}, pc.Epoch()))
	pub := &recordingPublisher{}
	r := NewRevalidator(pc, pub, metrics.New(), zap.NewNop())

	r.Revalidate(TagBlogs, BlogTag("hello"))

	_, hit := pc.Get("/blogs")
	assert.False(t, hit)
	require.Len(t, pub.got, 1)
	assert.Equal(t, []string{"blogs", "blog:hello"}, pub.got[0])
}

func TestRevalidator_NilSafe(t *testing.T) {
	var r *Revalidator
	assert.NotPanics(t, func() { r.Revalidate(TagBlogs) })

	r = NewRevalidator(nil, nil, nil, zap.NewNop())
	assert.NotPanics(t, func() { r.Revalidate(TagBlogs) })
}
