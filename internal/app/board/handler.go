package board

import (
	"net/http"

	"atomflow/internal/app/user"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetBoard(c *gin.Context)
	GetCards(c *gin.Context)
	CreateCard(c *gin.Context)
	UpdateCard(c *gin.Context)
	DeleteCard(c *gin.Context)
	MoveCard(c *gin.Context)
	AddColumn(c *gin.Context)
	RenameColumn(c *gin.Context)
	DeleteColumn(c *gin.Context)
	MoveColumn(c *gin.Context)
}

type handler struct {
	service Service
	userSvc user.Service
}

func NewHandler(service Service, userSvc user.Service) Handler {
	return &handler{
		service: service,
		userSvc: userSvc,
	}
}

// @Summary Get board state
// @Description Get the full board snapshot: columns, cards, roster and overdue count
// @Tags Board
// @Accept json
// @Produce json
// @Success 200 {object} BoardStateResponse
// @Router /api/board [get]
func (h *handler) GetBoard(c *gin.Context) {
	columns, cards := h.service.State()

	users, err := h.userSvc.GetAllUsers()
	if err != nil {
		users = []*user.User{}
	}

	c.JSON(http.StatusOK, BoardStateResponse{
		Columns:      columns,
		Cards:        cards,
		Users:        users,
		OverdueCount: CountOverdue(cards),
	})
}

// @Summary Get filtered cards
// @Description Get cards matching a text query and/or assignee, grouped by column
// @Tags Board
// @Accept json
// @Produce json
// @Param q query string false "Text filter (title or tag, case-insensitive)"
// @Param assignee query string false "Assignee id filter"
// @Success 200 {object} FilteredCardsResponse
// @Router /api/board/cards [get]
func (h *handler) GetCards(c *gin.Context) {
	cards := h.service.FilterCards(c.Query("q"), c.Query("assignee"))
	c.JSON(http.StatusOK, FilteredCardsResponse{
		Cards:    cards,
		ByColumn: h.service.GroupByColumn(cards),
	})
}

// @Summary Create a card
// @Description Create a card at the end of the target column. Inline #hashtags are extracted into tags.
// @Tags Card
// @Accept json
// @Produce json
// @Param request body CreateCardRequest true "Card data"
// @Success 201 {object} Card
// @Failure 400 {object} ErrorResponse
// @Router /api/cards [post]
func (h *handler) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "columnId and title are required"})
		return
	}

	card := h.service.CreateCard(req.ColumnID, req.Title, req.CardOptions)
	c.JSON(http.StatusCreated, card)
}

// @Summary Update a card
// @Description Replace the stored card wholesale. Callers must merge fields first.
// @Tags Card
// @Accept json
// @Produce json
// @Param id path string true "Card id"
// @Param request body Card true "Complete card"
// @Success 200 {object} Card
// @Failure 400 {object} ErrorResponse
// @Router /api/cards/{id} [put]
func (h *handler) UpdateCard(c *gin.Context) {
	var card Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid card payload"})
		return
	}
	card.ID = c.Param("id")

	h.service.UpdateCard(&card)
	c.JSON(http.StatusOK, &card)
}

// @Summary Delete a card
// @Tags Card
// @Accept json
// @Produce json
// @Param id path string true "Card id"
// @Success 204
// @Router /api/cards/{id} [delete]
func (h *handler) DeleteCard(c *gin.Context) {
	h.service.DeleteCard(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// @Summary Move a card
// @Description Move a card to a column, optionally at a position within that column's visible list
// @Tags Card
// @Accept json
// @Produce json
// @Param id path string true "Card id"
// @Param request body MoveCardRequest true "Target column and optional index"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/cards/{id}/move [post]
func (h *handler) MoveCard(c *gin.Context) {
	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "columnId is required"})
		return
	}

	h.service.ReorderCard(c.Param("id"), req.ColumnID, req.Index)
	c.Status(http.StatusNoContent)
}

// @Summary Add a column
// @Description Append a column. The id is derived from the slugified title.
// @Tags Column
// @Accept json
// @Produce json
// @Param request body ColumnRequest true "Column title"
// @Success 201 {object} Column
// @Failure 400 {object} ErrorResponse
// @Router /api/columns [post]
func (h *handler) AddColumn(c *gin.Context) {
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title is required"})
		return
	}

	col := h.service.AddColumn(req.Title)
	if col == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title must not be blank"})
		return
	}
	c.JSON(http.StatusCreated, col)
}

// @Summary Rename a column
// @Tags Column
// @Accept json
// @Produce json
// @Param id path string true "Column id"
// @Param request body ColumnRequest true "New title"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/columns/{id} [patch]
func (h *handler) RenameColumn(c *gin.Context) {
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title is required"})
		return
	}

	h.service.RenameColumn(c.Param("id"), req.Title)
	c.Status(http.StatusNoContent)
}

// @Summary Delete a column
// @Description Delete a column and every card in it, in one transaction
// @Tags Column
// @Accept json
// @Produce json
// @Param id path string true "Column id"
// @Success 204
// @Router /api/columns/{id} [delete]
func (h *handler) DeleteColumn(c *gin.Context) {
	h.service.DeleteColumn(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// @Summary Move a column
// @Description Reorder a column to the position currently held by the target column
// @Tags Column
// @Accept json
// @Produce json
// @Param id path string true "Dragged column id"
// @Param request body MoveColumnRequest true "Target column"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/columns/{id}/move [post]
func (h *handler) MoveColumn(c *gin.Context) {
	var req MoveColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "targetId is required"})
		return
	}

	h.service.MoveColumnPosition(c.Param("id"), req.TargetID)
	c.Status(http.StatusNoContent)
}
