package service

import (
	"github.com/rentflow/rentflow/internal/clock"
	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/domain/application"
	"github.com/rentflow/rentflow/internal/domain/dispute"
	"github.com/rentflow/rentflow/internal/domain/invoice"
	"github.com/rentflow/rentflow/internal/domain/lease"
	"github.com/rentflow/rentflow/internal/domain/payment"
	"github.com/rentflow/rentflow/internal/domain/user"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/notification"
	"github.com/rentflow/rentflow/internal/repository/postgres"
)

// ServiceParams holds common dependencies for services.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Clock  clock.Clock

	LeaseRepo       lease.Repository
	InvoiceRepo     invoice.Repository
	PaymentRepo     payment.Repository
	DisputeRepo     dispute.Repository
	ApplicationRepo application.Repository
	UserRepo        user.Repository

	Notifier notification.Dispatcher
}
