// Package api assembles the HTTP surface: public v1 endpoints plus
// cron-style trigger endpoints for the billing jobs.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rentflow/rentflow/internal/api/cron"
	v1 "github.com/rentflow/rentflow/internal/api/v1"
	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/rest/middleware"
	"github.com/rentflow/rentflow/internal/service"
)

// Handlers bundles every HTTP handler mounted by the router.
type Handlers struct {
	Lease       *v1.LeaseHandler
	Invoice     *v1.InvoiceHandler
	Payment     *v1.PaymentHandler
	InvoiceCron *cron.InvoiceCronHandler
}

// NewHandlers builds the handler set from the service layer.
func NewHandlers(
	leaseService service.LeaseService,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	log *logger.Logger,
) Handlers {
	return Handlers{
		Lease:       v1.NewLeaseHandler(leaseService, log),
		Invoice:     v1.NewInvoiceHandler(invoiceService, log),
		Payment:     v1.NewPaymentHandler(paymentService, log),
		InvoiceCron: cron.NewInvoiceCronHandler(invoiceService, log),
	}
}

// NewRouter mounts all routes on a gin engine.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/v1")
	{
		leases := apiV1.Group("/leases")
		{
			leases.POST("", handlers.Lease.CreateLease)
			leases.GET("", handlers.Lease.ListLeases)
			leases.GET("/:id", handlers.Lease.GetLease)
			leases.POST("/:id/signatures", handlers.Lease.RecordSignature)
			leases.POST("/:id/terminate", handlers.Lease.TerminateLease)
			leases.POST("/:id/renew", handlers.Lease.RenewLease)
		}

		invoices := apiV1.Group("/invoices")
		{
			invoices.GET("", handlers.Invoice.ListInvoices)
			invoices.GET("/:id", handlers.Invoice.GetInvoice)
			invoices.POST("/:id/payments", handlers.Payment.ApplyPayment)
			invoices.GET("/:id/payments", handlers.Payment.ListPayments)
			invoices.POST("/:id/disputes", handlers.Payment.RaiseDispute)
		}

		apiV1.POST("/disputes/:id/resolve", handlers.Payment.ResolveDispute)
	}

	cronGroup := router.Group("/cron")
	{
		cronGroup.POST("/invoices/generate", handlers.InvoiceCron.GenerateInvoices)
	}

	return router
}
