package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
	"github.com/vegana/shop/internal/web"
)

// page renders one page template inside the shared layout.
type page struct {
	template *template.Template
	auth     services.AuthService
	log      logrus.FieldLogger
}

func newPage(name string, auth services.AuthService, log logrus.FieldLogger) (page, error) {
	tmpl, err := web.Page(name)
	if err != nil {
		return page{}, fmt.Errorf("failed to parse template: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return page{
		template: tmpl,
		auth:     auth,
		log:      log.WithField("page", strings.TrimSuffix(name, ".html")),
	}, nil
}

// viewer returns the signed-in customer, or nil for anonymous sessions.
func (p *page) viewer(r *http.Request) *models.Customer {
	id := session.CustomerID(r.Context())
	if id == "" || p.auth == nil {
		return nil
	}
	c, err := p.auth.Customer(r.Context(), id)
	if err != nil {
		p.log.WithError(err).WithField("customer", id).Warn("Signed-in customer could not be loaded")
		return nil
	}
	return c
}

func (p *page) render(w http.ResponseWriter, r *http.Request, status int, title string, content any) {
	view := web.View{Title: title, Content: content}
	if c := p.viewer(r); c != nil {
		view.LoggedIn = true
		view.CustomerName = c.FullName
	}
	p.renderView(w, status, view)
}

// renderView executes into a buffer first so a template error never leaves a
// half written page behind.
func (p *page) renderView(w http.ResponseWriter, status int, view web.View) {
	var buf bytes.Buffer
	if err := p.template.ExecuteTemplate(&buf, "layout", view); err != nil {
		p.log.WithError(err).Error("Error rendering template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirectToLogin sends anonymous visitors to /login, remembering where they
// wanted to go.
func redirectToLogin(w http.ResponseWriter, r *http.Request, next string) {
	http.Redirect(w, r, "/login?"+url.Values{"next": {next}}.Encode(), http.StatusSeeOther)
}

// localPath returns next when it is a path on this site, otherwise "/".
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
