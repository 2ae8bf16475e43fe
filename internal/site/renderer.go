package site

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bilgisen/visacms/internal/models"
	"github.com/bilgisen/visacms/internal/utils"
)

const (
	descriptionLength = 160

	defaultNewsTitle        = "Latest Visa & Immigration News"
	defaultNewsDescription  = "Stay updated with global immigration and visa policy changes for Indian aspirants."
	defaultStoryDescription = "Get the latest updates on visa changes, migration routes, and PR policies impacting Indian migrants."
	defaultVisasTitle       = "Visa Programs"
	defaultVisasDescription = "Compare work, study and permanent residence visa programs."
)

// Meta carries the page head values
type Meta struct {
	Title       string
	Description string
	Keywords    string
}

// NewsPage is the data behind the news index and article pages
type NewsPage struct {
	Meta    Meta
	Story   *models.News
	Stories []models.News
}

// VisaPage is the data behind the visa index and detail pages
type VisaPage struct {
	Meta  Meta
	Visa  *models.Visa
	Visas []models.Visa
}

// NewsKey is the path segment of a news article
func NewsKey(n models.News) string {
	return utils.Slugify(n.Title)
}

// VisaKey is the path segment of a visa program
func VisaKey(v models.Visa) string {
	if v.Slug != "" {
		return v.Slug
	}
	return utils.Slugify(v.Name)
}

// Renderer assembles public pages from the live records followed by the
// fallback dataset
type Renderer struct {
	source   Source
	fallback *Fallback
	siteName string
	log      zerolog.Logger
}

func NewRenderer(source Source, fallback *Fallback, siteName string, log zerolog.Logger) *Renderer {
	return &Renderer{
		source:   source,
		fallback: fallback,
		siteName: siteName,
		log:      log,
	}
}

func (r *Renderer) title(s string) string {
	return fmt.Sprintf("%s | %s", s, r.siteName)
}

func (r *Renderer) allNews(ctx context.Context) []models.News {
	var live []models.News
	if r.source != nil {
		var err error
		live, err = r.source.ListNews(ctx)
		if err != nil {
			r.log.Error().Err(err).Msg("loading live news failed, serving fallback only")
			live = nil
		}
	}
	return append(live, r.fallback.News()...)
}

func (r *Renderer) allVisas(ctx context.Context) []models.Visa {
	var live []models.Visa
	if r.source != nil {
		var err error
		live, err = r.source.ListVisas(ctx)
		if err != nil {
			r.log.Error().Err(err).Msg("loading live visas failed, serving fallback only")
			live = nil
		}
	}
	return append(live, r.fallback.Visas()...)
}

func (r *Renderer) newsIndexMeta() Meta {
	return Meta{
		Title:       r.title(defaultNewsTitle),
		Description: defaultNewsDescription,
	}
}

// NewsIndex lists every article
func (r *Renderer) NewsIndex(ctx context.Context) *NewsPage {
	return &NewsPage{
		Meta:    r.newsIndexMeta(),
		Stories: r.allNews(ctx),
	}
}

// NewsArticle finds the first article whose title slugifies to slug. The other
// articles are returned alongside it. A miss returns the index meta and
// models.ErrNotFound.
func (r *Renderer) NewsArticle(ctx context.Context, slug string) (*NewsPage, error) {
	all := r.allNews(ctx)

	page := &NewsPage{Meta: r.newsIndexMeta()}
	for i := range all {
		if page.Story == nil && NewsKey(all[i]) == slug {
			story := all[i]
			page.Story = &story
			continue
		}
		if NewsKey(all[i]) != slug {
			page.Stories = append(page.Stories, all[i])
		}
	}

	if page.Story == nil {
		return page, models.ErrNotFound
	}

	page.Meta = Meta{
		Title:       r.title(page.Story.Title),
		Description: storyDescription(page.Story),
	}
	return page, nil
}

func storyDescription(n *models.News) string {
	if n.Summary != "" {
		return n.Summary
	}
	if d := Excerpt(n.Content, descriptionLength); d != "" {
		return d
	}
	return defaultStoryDescription
}

func (r *Renderer) visasIndexMeta() Meta {
	return Meta{
		Title:       r.title(defaultVisasTitle),
		Description: defaultVisasDescription,
	}
}

// Visas lists every visa program
func (r *Renderer) Visas(ctx context.Context) *VisaPage {
	return &VisaPage{
		Meta:  r.visasIndexMeta(),
		Visas: r.allVisas(ctx),
	}
}

// Visa finds the first program whose key equals slug
func (r *Renderer) Visa(ctx context.Context, slug string) (*VisaPage, error) {
	all := r.allVisas(ctx)

	page := &VisaPage{Meta: r.visasIndexMeta(), Visas: all}
	for i := range all {
		if VisaKey(all[i]) == slug {
			v := all[i]
			page.Visa = &v
			break
		}
	}
	if page.Visa == nil {
		return page, models.ErrNotFound
	}

	page.Meta = Meta{
		Title:       page.Visa.MetaTitle,
		Description: page.Visa.MetaDescription,
		Keywords:    page.Visa.MetaKeywords,
	}
	if page.Meta.Title == "" {
		page.Meta.Title = r.title(page.Visa.Name)
	}
	if page.Meta.Description == "" {
		page.Meta.Description = Excerpt(page.Visa.Description, descriptionLength)
	}
	if page.Meta.Description == "" {
		page.Meta.Description = defaultVisasDescription
	}
	return page, nil
}
