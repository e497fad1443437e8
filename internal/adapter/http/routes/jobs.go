package routes

import (
	"fieldledger/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathJobs = "/jobs"
)

func addJobRoutes(rg *gin.RouterGroup, jobHandler *handlers.JobHandler) {
	jobs := rg.Group(PathJobs)
	{
		jobs.POST("", jobHandler.CreateJob)
		jobs.GET("", jobHandler.ListJobs)
		jobs.POST("/batch-invoice", jobHandler.BatchInvoiceJobs)
		jobs.GET("/:id", jobHandler.GetJob)
		jobs.PATCH("/:id/status", jobHandler.UpdateJobStatus)
		jobs.PATCH("/:id/schedule", jobHandler.ScheduleJob)
		jobs.PATCH("/:id/checklist/:index", jobHandler.ToggleChecklistItem)
		jobs.POST("/:id/invoice", jobHandler.InvoiceJob)
	}
}
