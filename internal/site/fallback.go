package site

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bilgisen/visacms/internal/models"
)

//go:embed fallback/*.yaml
var fallbackFS embed.FS

// Fallback is the static content compiled into the binary. It is shown after
// the live records so the public pages are never empty.
type Fallback struct {
	news  []models.News
	visas []models.Visa
}

// LoadFallback parses the embedded dataset
func LoadFallback() (*Fallback, error) {
	var fb Fallback
	if err := decodeYAML("fallback/news.yaml", &fb.news); err != nil {
		return nil, err
	}
	if err := decodeYAML("fallback/visas.yaml", &fb.visas); err != nil {
		return nil, err
	}
	return &fb, nil
}

// NewFallback builds a dataset from the given records
func NewFallback(news []models.News, visas []models.Visa) *Fallback {
	return &Fallback{news: news, visas: visas}
}

func decodeYAML(name string, out interface{}) error {
	data, err := fallbackFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (f *Fallback) News() []models.News {
	if f == nil {
		return nil
	}
	return append([]models.News(nil), f.news...)
}

func (f *Fallback) Visas() []models.Visa {
	if f == nil {
		return nil
	}
	return append([]models.Visa(nil), f.visas...)
}
