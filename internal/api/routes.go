package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API routes.
func RegisterRoutes(router *gin.Engine, store StudyStore) {
	handler := NewAPIHandler(store)

	router.GET("/", handler.HealthCheckHandler)
	router.GET("/img", handler.BrainImageHandler)
	router.GET("/test_db", handler.DiagnoseDatabaseHandler)

	router.GET("/terms/:term/studies", handler.StudiesByTermHandler)
	router.GET("/locations/:coords/studies", handler.StudiesByLocationHandler)

	dissociate := router.Group("/dissociate")
	{
		dissociate.GET("/terms/:term_a/:term_b", handler.DissociateTermsPageHandler)
		dissociate.GET("/terms/:term_a/:term_b/studies", handler.DissociateTermsStudiesHandler)
		dissociate.GET("/locations/:coords_a/:coords_b", handler.DissociateLocationsPageHandler)
		dissociate.GET("/locations/:coords_a/:coords_b/studies", handler.DissociateLocationsStudiesHandler)
	}
}
