package assist

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/assist/description", handler.EnhanceDescription)
	rg.POST("/assist/subtasks", handler.SuggestSubtasks)
}
