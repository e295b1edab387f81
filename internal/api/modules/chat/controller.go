package chat

import (
	"errors"
	"net/http"

	"github.com/ethanbaker/chatwidget/internal/api/middleware"
	"github.com/ethanbaker/chatwidget/internal/gateway"
	"github.com/ethanbaker/chatwidget/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Public error messages
const (
	MsgBadBody         = "Could not parse request body"
	MsgMissingMessage  = "Message is required"
	MsgProcessingError = "Failed to process the request"
)

// PostChat handles POST requests completing a message against the supplied history
func PostChat(c *gin.Context) {
	// Parse request body
	var req sdk.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, MsgBadBody).AsGinResponse())
		return
	}

	ctx := gateway.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
	result, err := GetGateway().Complete(ctx, req.Message, req.History)
	if err != nil {
		c.JSON(errorResponse(err).AsGinResponse())
		return
	}

	c.JSON(sdk.ChatResponse{
		Response: result.Reply,
		History:  result.History,
		Chunks:   result.Chunks,
	}.AsGinResponse())
}

// PostSuggestions handles POST requests for follow-up prompts
func PostSuggestions(c *gin.Context) {
	// Parse request body
	var req sdk.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, MsgBadBody).AsGinResponse())
		return
	}

	ctx := gateway.WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
	suggestions, err := GetGateway().Suggest(ctx, req.Message, req.History)
	if err != nil {
		c.JSON(errorResponse(err).AsGinResponse())
		return
	}

	c.JSON(sdk.SuggestionsResponse{Suggestions: suggestions}.AsGinResponse())
}

// errorResponse maps gateway errors to public responses. Backend details never leave the server
func errorResponse(err error) sdk.ErrorResponse {
	if errors.Is(err, gateway.ErrEmptyMessage) {
		return sdk.NewErrorResponse(http.StatusBadRequest, MsgMissingMessage)
	}
	return sdk.NewErrorResponse(http.StatusInternalServerError, MsgProcessingError)
}
