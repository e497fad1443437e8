package routes

import (
	"fieldledger/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathCustomers = "/customers"
	PathLeads     = "/leads"
)

func addCustomerRoutes(rg *gin.RouterGroup, customerHandler *handlers.CustomerHandler, leadHandler *handlers.LeadHandler) {
	customers := rg.Group(PathCustomers)
	{
		customers.POST("", customerHandler.CreateCustomer)
		customers.GET("", customerHandler.ListCustomers)
		customers.GET("/:id", customerHandler.GetCustomer)
	}

	leads := rg.Group(PathLeads)
	{
		leads.POST("", leadHandler.CreateLead)
		leads.GET("", leadHandler.ListLeads)
		leads.GET("/:id", leadHandler.GetLead)
		leads.PATCH("/:id/status", leadHandler.UpdateLeadStatus)
		leads.POST("/:id/convert", leadHandler.ConvertLead)
	}
}
