package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func blogEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	bc := &BlogController{Base: e.base, Now: func() time.Time { return fixedNow }}
	public := e.router.Group("/blogs", middleware.OptionalAdmin(e.db, testAuth))
	public.GET("", bc.List)
	public.GET("/:id", bc.Get)
	public.GET("/slug/:slug", bc.GetBySlug)
	e.router.POST("/blogs", bc.Create)
	e.router.PUT("/blogs/reorder", bc.Reorder)
	e.router.PUT("/blogs/:id", bc.Update)
	e.router.DELETE("/blogs/:id", bc.Delete)
	return e
}

func TestBlogPublishStampsDate(t *testing.T) {
	e := blogEnv(t)

	w := e.do(t, http.MethodPost, "/blogs", map[string]any{"title": "Draft post", "tags": []string{"go"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[models.Blog](t, w)
	assert.Equal(t, "draft-post", b.Slug)
	assert.False(t, b.Published)
	assert.Nil(t, b.PublishedAt)

	w = e.do(t, http.MethodPut, "/blogs/1", map[string]any{"published": true})
	require.Equal(t, http.StatusOK, w.Code)
	b = decode[models.Blog](t, w)
	require.NotNil(t, b.PublishedAt)
	assert.True(t, b.PublishedAt.Equal(fixedNow))
	assert.Contains(t, e.pub.all(), cache.BlogTag("draft-post"))

	w = e.do(t, http.MethodPut, "/blogs/1", map[string]any{"published": false})
	require.Equal(t, http.StatusOK, w.Code)
	b = decode[models.Blog](t, w)
	assert.False(t, b.Published)
	assert.NotNil(t, b.PublishedAt)
}

func TestBlogDraftsHiddenFromPublic(t *testing.T) {
	e := blogEnv(t)
	now := time.Now()
	require.NoError(t, e.db.Create(&models.Blog{Title: "Live", Slug: "live", Published: true, PublishedAt: &now, Tags: []string{"go"}}).Error)
	require.NoError(t, e.db.Create(&models.Blog{Title: "Draft", Slug: "draft", SortOrder: 1}).Error)

	list := decode[struct{ Data []models.Blog }](t, e.do(t, http.MethodGet, "/blogs", nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "live", list.Data[0].Slug)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/blogs/slug/draft", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/blogs/2", nil).Code)

	cookie := e.adminCookie(t)
	list = decode[struct{ Data []models.Blog }](t, e.do(t, http.MethodGet, "/blogs", nil, cookie))
	assert.Len(t, list.Data, 2)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/blogs/slug/draft", nil, cookie).Code)

	tagged := decode[struct{ Data []models.Blog }](t, e.do(t, http.MethodGet, "/blogs?tag=go", nil, cookie))
	require.Len(t, tagged.Data, 1)
	assert.Equal(t, "live", tagged.Data[0].Slug)
}

func TestBlogReorderAndDelete(t *testing.T) {
	e := blogEnv(t)
	for i, s := range []string{"one", "two"} {
		require.NoError(t, e.db.Create(&models.Blog{Title: s, Slug: s, SortOrder: i}).Error)
	}

	w := e.do(t, http.MethodPut, "/blogs/reorder", []map[string]any{{"id": 2, "sort_order": 0}, {"id": 1, "sort_order": 1}})
	require.Equal(t, http.StatusOK, w.Code)
	var first models.Blog
	require.NoError(t, e.db.Order("sort_order").First(&first).Error)
	assert.Equal(t, "two", first.Slug)

	w = e.do(t, http.MethodPut, "/blogs/reorder", []map[string]any{{"id": 2, "sort_order": 1}, {"id": 7, "sort_order": 0}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, e.db.Order("sort_order").First(&first).Error)
	assert.Equal(t, "two", first.Slug)

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/blogs/1", nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/blogs/1", nil).Code)
}
