package health

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the health module. backend names the model backend
// reported in the status
func RegisterRoutes(g *gin.RouterGroup, backend string) {
	ctrl := newController(backend)
	g.GET("/health", ctrl.getStatus)
}
