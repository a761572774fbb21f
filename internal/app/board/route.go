package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/board", handler.GetBoard)
	rg.GET("/board/cards", handler.GetCards)

	rg.POST("/cards", handler.CreateCard)
	rg.PUT("/cards/:id", handler.UpdateCard)
	rg.DELETE("/cards/:id", handler.DeleteCard)
	rg.POST("/cards/:id/move", handler.MoveCard)

	rg.POST("/columns", handler.AddColumn)
	rg.PATCH("/columns/:id", handler.RenameColumn)
	rg.DELETE("/columns/:id", handler.DeleteColumn)
	rg.POST("/columns/:id/move", handler.MoveColumn)
}
