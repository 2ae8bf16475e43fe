package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

// Layout wraps every public page
const Layout = "layouts/main"

// Views returns the template engine for the public pages
func Views() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("raw", func(s string) template.HTML {
		return template.HTML(s)
	})
	engine.AddFunc("imageURL", imageURL)
	engine.AddFunc("newsKey", NewsKey)
	engine.AddFunc("visaKey", VisaKey)
	return engine, nil
}

// imageURL admits inline image data URIs, which html/template would otherwise
// replace with a placeholder. Everything else goes through normal escaping.
func imageURL(s string) interface{} {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return s
}
