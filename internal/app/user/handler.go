package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetAllUsers(c *gin.Context)
	UploadAvatar(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Get all users
// @Description Get the fixed team roster
// @Tags User
// @Accept json
// @Produce json
// @Success 200 {object} UserListResponse
// @Router /api/users [get]
func (h *handler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, UserListResponse{Users: users})
}

// @Summary Upload user avatar
// @Description Store a new avatar image for a roster member
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "User id"
// @Param file formData file true "Avatar image"
// @Success 200 {object} AvatarResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id}/avatar [post]
func (h *handler) UploadAvatar(c *gin.Context) {
	id := c.Param("id")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}

	user, err := h.service.SetAvatar(c.Request.Context(), id, file)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, AvatarResponse{ID: user.ID, Avatar: user.Avatar})
}
