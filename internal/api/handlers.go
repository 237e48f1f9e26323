package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ntu-info/05-mikashih/internal/api/assets"
	"github.com/ntu-info/05-mikashih/internal/models"
)

// StudyStore is the query surface the handlers need from the datastore.
type StudyStore interface {
	StudiesByTerm(ctx context.Context, term string) ([]models.TermStudy, error)
	StudiesByLocation(ctx context.Context, p models.Point) ([]models.LocationStudy, error)
	DissociateTerms(ctx context.Context, termA, termB string) ([]models.TermDissociation, error)
	DissociateLocations(ctx context.Context, a, b models.Point) ([]models.LocationDissociation, error)
	Diagnostics(ctx context.Context) (models.Diagnostics, error)
}

// APIHandler holds dependencies for API handlers.
type APIHandler struct {
	store StudyStore
}

// NewAPIHandler creates a new handler instance.
func NewAPIHandler(store StudyStore) *APIHandler {
	return &APIHandler{store: store}
}

// HealthCheckHandler serves the plain health marker.
func (h *APIHandler) HealthCheckHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<p>Server working!</p>"))
}

// BrainImageHandler serves the embedded amygdala image.
func (h *APIHandler) BrainImageHandler(c *gin.Context) {
	c.Data(http.StatusOK, "image/gif", assets.AmygdalaGIF)
}

// StudiesByTermHandler lists studies whose annotations contain the term
// substring, ordered by mean weight descending.
func (h *APIHandler) StudiesByTermHandler(c *gin.Context) {
	term := c.Param("term")

	studies, err := h.store.StudiesByTerm(c.Request.Context(), term)
	if err != nil {
		h.queryError(c, err)
		return
	}
	if studies == nil {
		studies = []models.TermStudy{}
	}
	c.JSON(http.StatusOK, gin.H{
		"term":    term,
		"count":   len(studies),
		"studies": studies,
	})
}

// StudiesByLocationHandler lists studies with a coordinate within the
// proximity radius of the given MNI point, nearest first.
func (h *APIHandler) StudiesByLocationHandler(c *gin.Context) {
	p, err := models.ParsePoint(c.Param("coords"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates format. Use x_y_z"})
		return
	}

	studies, err := h.store.StudiesByLocation(c.Request.Context(), p)
	if err != nil {
		h.queryError(c, err)
		return
	}
	if studies == nil {
		studies = []models.LocationStudy{}
	}
	c.JSON(http.StatusOK, gin.H{
		"coordinates": p,
		"count":       len(studies),
		"studies":     studies,
	})
}

// DissociateTermsStudiesHandler is the structured variant of the term
// dissociation: studies mentioning term A but not term B.
func (h *APIHandler) DissociateTermsStudiesHandler(c *gin.Context) {
	termA := c.Param("term_a")
	termB := c.Param("term_b")

	studies, err := h.store.DissociateTerms(c.Request.Context(), termA, termB)
	if err != nil {
		h.queryError(c, err)
		return
	}
	if studies == nil {
		studies = []models.TermDissociation{}
	}
	c.JSON(http.StatusOK, gin.H{
		"term_a":  termA,
		"term_b":  termB,
		"count":   len(studies),
		"studies": studies,
	})
}

// DissociateTermsPageHandler renders the term dissociation as a styled
// document.
func (h *APIHandler) DissociateTermsPageHandler(c *gin.Context) {
	termA := c.Param("term_a")
	termB := c.Param("term_b")

	studies, err := h.store.DissociateTerms(c.Request.Context(), termA, termB)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "term dissociation failed", "error", err)
		renderErrorPage(c, http.StatusInternalServerError, err.Error())
		return
	}
	renderTermDissociation(c, termDissociationPage{
		TermA:   termA,
		TermB:   termB,
		Count:   len(studies),
		Studies: studies,
	})
}

// DissociateLocationsStudiesHandler is the structured variant of the
// location dissociation: studies near point A but not near point B.
func (h *APIHandler) DissociateLocationsStudiesHandler(c *gin.Context) {
	a, b, err := parsePointPair(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates format. Use x_y_z"})
		return
	}

	studies, err := h.store.DissociateLocations(c.Request.Context(), a, b)
	if err != nil {
		h.queryError(c, err)
		return
	}
	if studies == nil {
		studies = []models.LocationDissociation{}
	}
	c.JSON(http.StatusOK, gin.H{
		"coordinates_a": a,
		"coordinates_b": b,
		"count":         len(studies),
		"studies":       studies,
	})
}

// DissociateLocationsPageHandler renders the location dissociation as a
// styled document.
func (h *APIHandler) DissociateLocationsPageHandler(c *gin.Context) {
	a, b, err := parsePointPair(c)
	if err != nil {
		renderErrorPage(c, http.StatusBadRequest, "Invalid coordinates format. Use x_y_z")
		return
	}

	studies, err := h.store.DissociateLocations(c.Request.Context(), a, b)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "location dissociation failed", "error", err)
		renderErrorPage(c, http.StatusInternalServerError, err.Error())
		return
	}
	renderLocationDissociation(c, locationDissociationPage{
		PointA:  a,
		PointB:  b,
		Count:   len(studies),
		Studies: studies,
	})
}

// DiagnoseDatabaseHandler reports connectivity, version, row counts and
// samples. On failure the partially filled payload is still returned with
// ok:false and the error message.
func (h *APIHandler) DiagnoseDatabaseHandler(c *gin.Context) {
	diag, err := h.store.Diagnostics(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "database diagnostic failed", "error", err)
		diag.Ok = false
		diag.Error = err.Error()
		c.JSON(http.StatusInternalServerError, diag)
		return
	}
	c.JSON(http.StatusOK, diag)
}

// parsePointPair validates the coords_a/coords_b path params together so
// no query runs unless both parse.
func parsePointPair(c *gin.Context) (models.Point, models.Point, error) {
	a, err := models.ParsePoint(c.Param("coords_a"))
	if err != nil {
		return models.Point{}, models.Point{}, err
	}
	b, err := models.ParsePoint(c.Param("coords_b"))
	if err != nil {
		return models.Point{}, models.Point{}, err
	}
	return a, b, nil
}

// queryError maps a store failure to the documented response shape.
// Malformed input never reaches here; anything else is an upstream query
// failure.
func (h *APIHandler) queryError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, models.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	slog.ErrorContext(c.Request.Context(), "query failed", "error", err)
	c.JSON(status, gin.H{"error": err.Error()})
}
