// Package web embeds the storefront templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vegana/shop/internal/models"
)

//go:embed templates static
var files embed.FS

// View is the data every page template receives. Content is page specific.
type View struct {
	Title        string
	LoggedIn     bool
	CustomerName string
	Content      any
}

// Funcs are available in every template.
var Funcs = template.FuncMap{
	"money": models.FormatPrice,
}

// Page parses the layout, shared partials and the named page template.
// Execute the result with ExecuteTemplate(w, "layout", View{...}).
func Page(name string) (*template.Template, error) {
	return template.New(name).Funcs(Funcs).ParseFS(files,
		"templates/layout.html",
		"templates/cart_fragment.html",
		"templates/"+name,
	)
}

// CartFragment parses the cart table partial served to the cart API. Execute
// it with ExecuteTemplate(w, "cart-fragment", cart).
func CartFragment() (*template.Template, error) {
	return template.New("cart_fragment.html").Funcs(Funcs).ParseFS(files, "templates/cart_fragment.html")
}

// Static serves the embedded /static tree; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Sentence upper-cases the first letter of msg for display.
func Sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(msg[size:])
	return b.String()
}
