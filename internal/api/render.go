package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ntu-info/05-mikashih/internal/models"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Dissociation documents are rendered through html/template so study
// fields reflected into the page are contextually escaped.
var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.gohtml"))

type termDissociationPage struct {
	TermA   string
	TermB   string
	Count   int
	Studies []models.TermDissociation
}

type locationDissociationPage struct {
	PointA  models.Point
	PointB  models.Point
	Count   int
	Studies []models.LocationDissociation
}

type errorPage struct {
	Message string
}

func renderTermDissociation(c *gin.Context, data termDissociationPage) {
	renderPage(c, http.StatusOK, "term_dissociation.gohtml", data)
}

func renderLocationDissociation(c *gin.Context, data locationDissociationPage) {
	renderPage(c, http.StatusOK, "location_dissociation.gohtml", data)
}

func renderErrorPage(c *gin.Context, status int, message string) {
	renderPage(c, status, "error.gohtml", errorPage{Message: message})
}

// renderPage executes into a buffer first so a template failure never
// sends a truncated document.
func renderPage(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to render page", "template", name, "error", err)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte("<h1>Error</h1>"))
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
