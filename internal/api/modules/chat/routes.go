package chat

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the chat module
func RegisterRoutes(g *gin.RouterGroup) {
	group := g.Group("/chat")

	group.POST("", PostChat)                    // Complete a message against the transcript
	group.POST("/suggestions", PostSuggestions) // Suggest follow-up prompts
}
