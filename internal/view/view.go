// Package view renders the dashboard and portal pages from embedded
// html/template files.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/amrivadeneyra/lunari-sub002/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

// Page names accepted by Render and gin's c.HTML
const (
	PageDashboard      = "dashboard"
	PageDomainSettings = "domain-settings"
	PageCatalog        = "catalog"
	PageCompany        = "company"
	PageAppointment    = "appointment"
	PageSettings       = "settings"
	PagePortalBooking  = "portal-booking"
	PagePortalPayment  = "portal-payment"
)

type pageDef struct {
	layout string
	file   string
}

var pages = map[string]pageDef{
	PageDashboard:      {"dashboard", "dashboard.html"},
	PageDomainSettings: {"dashboard", "domain_settings.html"},
	PageCatalog:        {"dashboard", "catalog.html"},
	PageCompany:        {"dashboard", "company.html"},
	PageAppointment:    {"dashboard", "appointment.html"},
	PageSettings:       {"dashboard", "settings.html"},
	PagePortalBooking:  {"portal", "portal_booking.html"},
	PagePortalPayment:  {"portal", "portal_payment.html"},
}

// Renderer holds one template set per page. It implements gin's HTMLRender.
type Renderer struct {
	base    *template.Template
	pages   map[string]*template.Template
	layouts map[string]string
}

// NewRenderer parses every embedded template. Icons are filtered through images.
func NewRenderer(images *ImagePolicy) (*Renderer, error) {
	if images == nil {
		images = DefaultImagePolicy()
	}

	base, err := template.New("").Funcs(funcMap(images)).ParseFS(templatesFS,
		"templates/layouts/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	r := &Renderer{
		pages:   make(map[string]*template.Template, len(pages)),
		layouts: make(map[string]string, len(pages)),
	}
	for name, def := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templatesFS, "templates/pages/"+def.file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
		r.layouts[name] = def.layout
	}
	// partials are rendered from the base set; clones are taken above
	r.base = base
	return r, nil
}

// Render writes page name with data to w
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, r.layouts[name], data)
}

// RenderPartial writes a single component such as "banner" or "accordion"
func (r *Renderer) RenderPartial(w io.Writer, name string, data any) error {
	return r.base.ExecuteTemplate(w, name, data)
}

// Instance implements render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		return errorRender{fmt.Errorf("unknown page %q", name)}
	}
	return render.HTML{Template: t, Name: r.layouts[name], Data: data}
}

type errorRender struct{ err error }

func (e errorRender) Render(http.ResponseWriter) error { return e.err }

func (e errorRender) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

// AccordionItem is the data of the accordion partial
type AccordionItem struct {
	Trigger string
	Content string
	Open    bool
}

func funcMap(images *ImagePolicy) template.FuncMap {
	return template.FuncMap{
		"contentMargin": ContentMarginClass,
		"expanded":      func(expand *bool) bool { return expand != nil && *expand },
		"imageSrc":      images.Src,
		"bookingDate":   func(t time.Time) string { return t.Format(domain.BookingDateLayout) },
		"accordion": func(trigger, content string) AccordionItem {
			return AccordionItem{Trigger: trigger, Content: content}
		},
	}
}
