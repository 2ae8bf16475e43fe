package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/bilgisen/visacms/internal/client"
	"github.com/bilgisen/visacms/internal/models"
)

type newsFields struct {
	api *client.Client

	title, summary, image, imageFile, tag, time, readTime, content string
}

func newNewsFields(api *client.Client) *newsFields {
	return &newsFields{api: api}
}

func (f *newsFields) register(fs *flag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "headline")
	fs.StringVar(&f.summary, "summary", "", "short summary")
	fs.StringVar(&f.image, "image", "", "image URL or data URI")
	fs.StringVar(&f.imageFile, "image-file", "", "upload this image and use its URL")
	fs.StringVar(&f.tag, "tag", "", "category tag")
	fs.StringVar(&f.time, "time", "", "display time, e.g. \"2 hours ago\"")
	fs.StringVar(&f.readTime, "read-time", "", "reading time, e.g. \"3 min read\"")
	fs.StringVar(&f.content, "content", "", "HTML content, or @file to read it from a file")
}

func (f *newsFields) apply(ctx context.Context, n models.News, set map[string]bool) (models.News, error) {
	if set["title"] {
		n.Title = f.title
	}
	if set["summary"] {
		n.Summary = f.summary
	}
	if set["image"] {
		n.Image = f.image
	}
	if set["image-file"] {
		url, err := uploadFile(ctx, f.api, f.imageFile)
		if err != nil {
			return n, err
		}
		n.Image = url
	}
	if set["tag"] {
		n.Tag = f.tag
	}
	if set["time"] {
		n.Time = f.time
	}
	if set["read-time"] {
		n.ReadTime = f.readTime
	}
	if set["content"] {
		content, err := readText(f.content)
		if err != nil {
			return n, err
		}
		n.Content = content
	}
	return n, nil
}

// withSlug is a no-op; the server derives news slugs from the title
func (f *newsFields) withSlug(n models.News, slug string) models.News {
	return n
}

func (f *newsFields) columns() []string {
	return []string{"SLUG", "TITLE", "TAG", "TIME", "CREATED"}
}

func (f *newsFields) row(n models.News) []string {
	created := ""
	if !n.CreatedAt.IsZero() {
		created = n.CreatedAt.Format("2006-01-02 15:04")
	}
	return []string{n.Slug, n.Title, n.Tag, n.Time, created}
}

func (f *newsFields) detail(n models.News) (string, error) {
	body, err := htmltomarkdown.ConvertString(n.Content)
	if err != nil {
		return "", fmt.Errorf("failed to convert content: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	meta := nonEmpty(n.Tag, n.Time, n.ReadTime)
	if len(meta) > 0 {
		fmt.Fprintf(&b, "%s\n\n", strings.Join(meta, " · "))
	}
	if n.Summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", n.Summary)
	}
	fmt.Fprintf(&b, "%s\n", strings.TrimSpace(body))
	return b.String(), nil
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

type visaFields struct {
	api *client.Client

	name, description, info, metaTitle, metaDescription, metaKeywords, image, imageFile string
}

func newVisaFields(api *client.Client) *visaFields {
	return &visaFields{api: api}
}

func (f *visaFields) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "program name")
	fs.StringVar(&f.description, "description", "", "short description")
	fs.StringVar(&f.info, "info", "", "HTML details, or @file to read them from a file")
	fs.StringVar(&f.metaTitle, "meta-title", "", "page title")
	fs.StringVar(&f.metaDescription, "meta-description", "", "page description")
	fs.StringVar(&f.metaKeywords, "meta-keywords", "", "page keywords")
	fs.StringVar(&f.image, "image", "", "image URL")
	fs.StringVar(&f.imageFile, "image-file", "", "upload this image and use its URL")
}

func (f *visaFields) apply(ctx context.Context, v models.Visa, set map[string]bool) (models.Visa, error) {
	if set["name"] {
		v.Name = f.name
	}
	if set["description"] {
		v.Description = f.description
	}
	if set["info"] {
		info, err := readText(f.info)
		if err != nil {
			return v, err
		}
		v.Info = info
	}
	if set["meta-title"] {
		v.MetaTitle = f.metaTitle
	}
	if set["meta-description"] {
		v.MetaDescription = f.metaDescription
	}
	if set["meta-keywords"] {
		v.MetaKeywords = f.metaKeywords
	}
	if set["image"] {
		v.Image = f.image
	}
	if set["image-file"] {
		url, err := uploadFile(ctx, f.api, f.imageFile)
		if err != nil {
			return v, err
		}
		v.Image = url
	}
	return v, nil
}

func (f *visaFields) withSlug(v models.Visa, slug string) models.Visa {
	v.Slug = slug
	return v
}

func (f *visaFields) detail(v models.Visa) (string, error) {
	info, err := htmltomarkdown.ConvertString(v.Info)
	if err != nil {
		return "", fmt.Errorf("failed to convert info: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", v.Name)
	if v.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", v.Description)
	}
	if body := strings.TrimSpace(info); body != "" {
		fmt.Fprintf(&b, "%s\n\n", body)
	}
	fmt.Fprintf(&b, "Title:       %s\nDescription: %s\nKeywords:    %s\n", v.MetaTitle, v.MetaDescription, v.MetaKeywords)
	return b.String(), nil
}

func (f *visaFields) columns() []string {
	return []string{"SLUG", "NAME", "META TITLE"}
}

func (f *visaFields) row(v models.Visa) []string {
	return []string{v.Slug, v.Name, v.MetaTitle}
}
