package types

import (
	"context"
	"time"
)

// Status is the soft-delete/archival status carried by every record,
// orthogonal to the domain lifecycle statuses.
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
	StatusArchived  Status = "archived"
)

// BaseModel carries the audit columns shared by every persisted entity.
type BaseModel struct {
	Status    Status    `json:"status" gorm:"column:status;default:published"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
	CreatedBy string    `json:"created_by" gorm:"column:created_by"`
	UpdatedBy string    `json:"updated_by" gorm:"column:updated_by"`
}

// GetDefaultBaseModel returns a BaseModel stamped from the context and clock.
func GetDefaultBaseModel(ctx context.Context, now time.Time) BaseModel {
	userID := GetUserID(ctx)
	return BaseModel{
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
}

// LogLevel mirrors zap levels for configuration.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// TableName represents a database table name.
type TableName string

const (
	TableNameLeases             TableName = "leases"
	TableNameLeaseSignatures    TableName = "lease_signatures"
	TableNameInvoices           TableName = "invoices"
	TableNamePayments           TableName = "payments"
	TableNamePaymentDisputes    TableName = "payment_disputes"
	TableNameRentalApplications TableName = "rental_applications"
	TableNameUsers              TableName = "users"
	TableNameNumberSequences    TableName = "number_sequences"
)
