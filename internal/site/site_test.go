package site

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/visacms/internal/cache"
	"github.com/bilgisen/visacms/internal/models"
)

type fakeSource struct {
	news      []models.News
	visas     []models.Visa
	err       error
	newsCalls int
}

func (f *fakeSource) ListNews(ctx context.Context) ([]models.News, error) {
	f.newsCalls++
	return f.news, f.err
}

func (f *fakeSource) ListVisas(ctx context.Context) ([]models.Visa, error) {
	return f.visas, f.err
}

func newTestRenderer(src Source) *Renderer {
	fb := NewFallback(
		[]models.News{
			{Title: "Static Story", Summary: "From the archive", Content: "<p>Archive</p>"},
			{Title: "Test", Content: "<p>Static duplicate</p>"},
		},
		[]models.Visa{
			{Name: "Student Visa", Description: "Study abroad"},
		},
	)
	return NewRenderer(src, fb, "VJC Overseas", zerolog.Nop())
}

func TestLoadFallback(t *testing.T) {
	fb, err := LoadFallback()
	require.NoError(t, err)

	news := fb.News()
	require.NotEmpty(t, news)
	for _, n := range news {
		assert.NotEmpty(t, n.Title)
		assert.NotEmpty(t, n.Content)
		assert.NotEmpty(t, NewsKey(n))
	}
	require.NotEmpty(t, fb.Visas())
	assert.Equal(t, "canada-express-entry", fb.Visas()[0].Slug)
}

func TestNewsArticleLiveFirst(t *testing.T) {
	src := &fakeSource{news: []models.News{
		{Slug: "test", Title: "Test", Content: "<p>Live <b>content</b></p>"},
	}}
	r := newTestRenderer(src)

	page, err := r.NewsArticle(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, "<p>Live <b>content</b></p>", page.Story.Content)
	assert.Equal(t, "Test | VJC Overseas", page.Meta.Title)
	assert.Equal(t, "Live content", page.Meta.Description)

	// the static entry sharing the key is not listed among the others
	require.Len(t, page.Stories, 1)
	assert.Equal(t, "Static Story", page.Stories[0].Title)
}

func TestNewsArticleFromFallback(t *testing.T) {
	r := newTestRenderer(&fakeSource{})

	page, err := r.NewsArticle(context.Background(), "static-story")
	require.NoError(t, err)
	assert.Equal(t, "From the archive", page.Meta.Description)
	assert.Len(t, page.Stories, 1)
}

func TestNewsArticleMiss(t *testing.T) {
	r := newTestRenderer(&fakeSource{})

	page, err := r.NewsArticle(context.Background(), "no-such-story")
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NotNil(t, page)
	assert.Nil(t, page.Story)
	assert.Equal(t, "Latest Visa & Immigration News | VJC Overseas", page.Meta.Title)
}

func TestNewsIndexSurvivesSourceFailure(t *testing.T) {
	r := newTestRenderer(&fakeSource{err: errors.New("db down")})

	page := r.NewsIndex(context.Background())
	assert.Len(t, page.Stories, 2)
}

func TestVisaLookup(t *testing.T) {
	src := &fakeSource{visas: []models.Visa{
		{Slug: "work-permit", Name: "Work Permit", MetaTitle: "Work Permit Visa", MetaKeywords: "work"},
	}}
	r := newTestRenderer(src)

	page, err := r.Visa(context.Background(), "work-permit")
	require.NoError(t, err)
	assert.Equal(t, "Work Permit Visa", page.Meta.Title)
	assert.Equal(t, "work", page.Meta.Keywords)

	// fallback entries without a stored slug are addressed by their name
	page, err = r.Visa(context.Background(), "student-visa")
	require.NoError(t, err)
	assert.Equal(t, "Student Visa | VJC Overseas", page.Meta.Title)
	assert.Equal(t, "Study abroad", page.Meta.Description)

	_, err = r.Visa(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCachedSourceReadThrough(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{news: []models.News{{Slug: "test", Title: "Test", Content: "Hello"}}}
	cs := NewCachedSource(src, cache.NewMemoryCache(), time.Minute, zerolog.Nop())

	first, err := cs.ListNews(ctx)
	require.NoError(t, err)
	second, err := cs.ListNews(ctx)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Title, second[0].Title)
	assert.Equal(t, 1, src.newsCalls)

	require.NoError(t, cs.Invalidate(ctx, cache.NewsListKey))
	_, err = cs.ListNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.newsCalls)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{err: errors.New("db down")}
	cs := NewCachedSource(src, cache.NewMemoryCache(), time.Minute, zerolog.Nop())

	_, err := cs.ListNews(ctx)
	assert.Error(t, err)

	src.err = nil
	src.news = []models.News{{Title: "Back"}}
	items, err := cs.ListNews(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "short", input: "<p>Hello&nbsp;world</p>", max: 160, want: "Hello world"},
		{name: "strips tags", input: "<h1>Title</h1><p>Body</p>", max: 160, want: "Title Body"},
		{name: "cuts at word", input: "one two three four", max: 10, want: "one two…"},
		{name: "empty", input: "   ", max: 10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.input, tt.max))
		})
	}
}

func TestArticleViewKeepsInlineImages(t *testing.T) {
	engine, err := Views()
	require.NoError(t, err)
	require.NoError(t, engine.Load())

	page := &NewsPage{
		Meta: Meta{Title: "Test | Site"},
		Story: &models.News{
			Title:   "Test",
			Image:   "data:image/png;base64,iVBORw0KGgo=",
			Content: "<p>Hello</p>",
		},
		Stories: []models.News{{Title: "Other"}},
	}

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "news_article", page, Layout))

	out := buf.String()
	assert.Contains(t, out, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, out, "<p>Hello</p>")
	assert.Contains(t, out, `href="/latest-news/other"`)
	assert.Contains(t, out, "<title>Test | Site</title>")
}
