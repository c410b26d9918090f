package api

import (
	"embed"
	"html/template"
	"net/url"
	"strings"
	"time"

	"insight-web/pkg/catalog"
	"insight-web/pkg/phonemask"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded pages. Lead timestamps are shown in loc and
// relative image paths are served from assetBase, the Insight API address.
func Templates(loc *time.Location, assetBase string) (*template.Template, error) {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"when": func(t time.Time) string {
			return t.In(loc).Format(catalog.RequestTimeLayout)
		},
		"tel": func(phone string) template.URL {
			e164, ok := phonemask.E164(phone)
			if !ok {
				return ""
			}
			return template.URL("tel:" + e164)
		},
		"asset": func(ref string) string {
			return assetURL(assetBase, ref)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// assetURL puts a path such as /uploads/x.png under base. Absolute URLs are
// returned unchanged.
func assetURL(base, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "//") {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if base == "" {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
