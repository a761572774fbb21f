package assist

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Request struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type Response struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler interface {
	EnhanceDescription(c *gin.Context)
	SuggestSubtasks(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Enhance a card description
// @Description Rewrite a card description via the generative model. On failure the card is left unmodified.
// @Tags Assist
// @Accept json
// @Produce json
// @Param request body Request true "Card title and current description"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/assist/description [post]
func (h *handler) EnhanceDescription(c *gin.Context) {
	h.run(c, h.service.EnhanceDescription)
}

// @Summary Suggest subtasks
// @Description Propose a subtask checklist for a card via the generative model
// @Tags Assist
// @Accept json
// @Produce json
// @Param request body Request true "Card title and description"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/assist/subtasks [post]
func (h *handler) SuggestSubtasks(c *gin.Context) {
	h.run(c, h.service.SuggestSubtasks)
}

func (h *handler) run(c *gin.Context, fn func(ctx context.Context, title, description string) (string, error)) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title is required"})
		return
	}

	text, err := fn(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Text: text})
}
