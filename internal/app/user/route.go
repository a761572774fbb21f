package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/users", handler.GetAllUsers)
	rg.POST("/users/:id/avatar", handler.UploadAvatar)
}
