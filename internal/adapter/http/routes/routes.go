package routes

import (
	"log"
	"net/http"

	_ "fieldledger/docs" // generated by swag init
	"fieldledger/internal/adapter/http/handlers"
	"fieldledger/internal/adapter/persistence/repository"
	"fieldledger/internal/infrastructure/config"
	"fieldledger/internal/infrastructure/database"
	"fieldledger/internal/infrastructure/export"
	"fieldledger/internal/infrastructure/payments"
	"fieldledger/internal/usecase"
	"fieldledger/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	PathV1 = "/v1"
)

// handlerSet groups every HTTP handler mounted under /v1.
type handlerSet struct {
	customers *handlers.CustomerHandler
	leads     *handlers.LeadHandler
	estimates *handlers.EstimateHandler
	jobs      *handlers.JobHandler
	invoices  *handlers.InvoiceHandler
	payments  *handlers.BillingPaymentHandler
	reports   *handlers.ReportHandler
}

// Run will start the server
func Run(cfg config.Config) {
	router := newRouter(buildHandlers(cfg))

	log.Printf("[api] listening addr=%s payment_mock=%t", cfg.Addr(), cfg.PaymentGatewayMock)
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func newRouter(hs handlerSet) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group(PathV1)
	addPingRoutes(v1)
	addCustomerRoutes(v1, hs.customers, hs.leads)
	addEstimateRoutes(v1, hs.estimates)
	addJobRoutes(v1, hs.jobs)
	addInvoiceRoutes(v1, hs.invoices, hs.payments)
	addReportRoutes(v1, hs.reports)
	return router
}

func buildHandlers(cfg config.Config) handlerSet {
	ddb := database.ConnectDynamoDB(cfg)

	customerRepo := repository.NewCustomerDynamoRepository(ddb, cfg.Tables.Customers)
	leadRepo := repository.NewLeadDynamoRepository(ddb, cfg.Tables.Leads)
	estimateRepo := repository.NewEstimateDynamoRepository(ddb, cfg.Tables.Estimates)
	jobRepo := repository.NewJobDynamoRepository(ddb, cfg.Tables.Jobs)
	invoiceRepo := repository.NewInvoiceDynamoRepository(ddb, cfg.Tables.Invoices)
	paymentRepo := repository.NewBillingPaymentDynamoRepository(ddb, cfg.Tables.Payments)
	sequenceRepo := repository.NewSequenceDynamoRepository(ddb, cfg.Tables.Sequences)

	var paymentGateway interfaces.IPaymentGateway
	if !cfg.PaymentGatewayMock {
		mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Printf("Mercado Pago gateway not configured: %v", err)
		} else {
			paymentGateway = mpGateway
		}
	}

	invoiceDefaults := usecase.InvoiceDefaults{TaxRate: cfg.DefaultTaxRate, DueDays: cfg.InvoiceDueDays}
	estimateDefaults := usecase.EstimateDefaults{TaxRate: cfg.DefaultTaxRate, ValidDays: cfg.EstimateValidDays}

	customerUseCase := usecase.NewCustomerUseCase(customerRepo)
	leadUseCase := usecase.NewLeadUseCase(leadRepo, customerRepo)
	estimateUseCase := usecase.NewEstimateUseCase(estimateRepo, jobRepo, leadRepo, sequenceRepo, estimateDefaults)
	jobUseCase := usecase.NewJobUseCase(jobRepo, invoiceRepo, sequenceRepo, invoiceDefaults)
	invoiceUseCase := usecase.NewInvoiceUseCase(invoiceRepo, sequenceRepo, invoiceDefaults)
	paymentUseCase := usecase.NewBillingPaymentUseCase(paymentRepo, invoiceRepo, paymentGateway, cfg.PaymentGatewayMock)
	reportUseCase := usecase.NewReportUseCase(invoiceRepo, export.NewXLSXInvoiceExporter())

	return handlerSet{
		customers: handlers.NewCustomerHandler(customerUseCase),
		leads:     handlers.NewLeadHandler(leadUseCase),
		estimates: handlers.NewEstimateHandler(estimateUseCase),
		jobs:      handlers.NewJobHandler(jobUseCase),
		invoices:  handlers.NewInvoiceHandler(invoiceUseCase),
		payments:  handlers.NewBillingPaymentHandler(paymentUseCase, cfg.PaymentGatewayMock),
		reports:   handlers.NewReportHandler(reportUseCase),
	}
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
