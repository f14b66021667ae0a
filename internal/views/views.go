// Package views renders the admin pages from templates embedded into the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"orgadmin/internal/models"
)

const (
	PageOrganizations = "organizations.html"
	PageOrganization  = "organization.html"
	PageNotFound      = "not_found.html"
)

// Static figures shown on the pages until they are backed by real data.
const (
	PendingRequestsPlaceholder = 45
	SubscribersPlaceholder     = 5
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-off message shown at the top of a page.
type Notice struct {
	Kind NoticeKind
	Text string
}

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"badge": func(tag any) Badge { return StatusBadge(fmt.Sprint(tag)) },
	"inc":   func(i int) int { return i + 1 },
	"date": func(d *models.Date) string {
		if d == nil {
			return "-"
		}
		return d.String()
	},
	"pendingRequests": func() int { return PendingRequestsPlaceholder },
	"subscribers":     func() int { return SubscribersPlaceholder },
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, page := range []string{PageOrganizations, PageOrganization, PageNotFound} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("views.New: could not parse %s: %w", page, err)
		}
		r.pages[page] = t
	}

	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half written response behind.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("views.Renderer.Render: unknown page %s", page)
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", data)
	if err != nil {
		return fmt.Errorf("views.Renderer.Render: %w", err)
	}

	_, err = buf.WriteTo(w)
	return err
}

func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
