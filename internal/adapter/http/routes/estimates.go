package routes

import (
	"fieldledger/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathEstimates = "/estimates"
)

func addEstimateRoutes(rg *gin.RouterGroup, estimateHandler *handlers.EstimateHandler) {
	estimates := rg.Group(PathEstimates)
	{
		estimates.POST("", estimateHandler.CreateEstimate)
		estimates.GET("", estimateHandler.ListEstimates)
		estimates.GET("/:id", estimateHandler.GetEstimate)
		estimates.PUT("/:id/items", estimateHandler.UpdateEstimateItems)
		estimates.PATCH("/:id/send", estimateHandler.SendEstimate)
		estimates.PATCH("/:id/approve", estimateHandler.ApproveEstimate)
		estimates.PATCH("/:id/decline", estimateHandler.DeclineEstimate)
		estimates.PATCH("/:id/expire", estimateHandler.ExpireEstimate)
		estimates.POST("/:id/convert", estimateHandler.ConvertEstimate)
	}
}
