package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rentflow/rentflow/internal/clock"
	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/repository/postgres"
	"github.com/rentflow/rentflow/internal/types"
)

// Stores bundles the in-memory repositories a service test needs.
type Stores struct {
	LeaseRepo       *InMemoryLeaseStore
	InvoiceRepo     *InMemoryInvoiceStore
	PaymentRepo     *InMemoryPaymentStore
	DisputeRepo     *InMemoryDisputeStore
	ApplicationRepo *InMemoryApplicationStore
	UserRepo        *InMemoryUserStore
}

// NewStores creates a fresh set of empty stores.
func NewStores() Stores {
	return Stores{
		LeaseRepo:       NewInMemoryLeaseStore(),
		InvoiceRepo:     NewInMemoryInvoiceStore(),
		PaymentRepo:     NewInMemoryPaymentStore(),
		DisputeRepo:     NewInMemoryDisputeStore(),
		ApplicationRepo: NewInMemoryApplicationStore(),
		UserRepo:        NewInMemoryUserStore(),
	}
}

// BaseServiceTestSuite provides common setup for service tests: in-memory
// stores, a mock clock pinned to a known date, and a context with a test user.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	cfg      *config.Configuration
	logger   *logger.Logger
	db       postgres.IClient
	clock    *clock.Mock
	stores   Stores
	notifier *CaptureNotifier
}

// SetupTest initializes fresh state before each test.
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = types.SetUserID(context.Background(), "user_test")
	s.cfg = config.GetDefaultConfig()
	s.logger = logger.GetLogger()
	s.db = NewMockDBClient()
	s.clock = clock.NewMock()
	s.clock.Set(time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC))
	s.stores = NewStores()
	s.notifier = NewCaptureNotifier()
}

// TearDownTest clears state after each test.
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
	s.notifier.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetClock returns the mock clock; tests move time with Set and Add.
func (s *BaseServiceTestSuite) GetClock() *clock.Mock {
	return s.clock
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetNotifier() *CaptureNotifier {
	return s.notifier
}

// ClearStores empties every store.
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.LeaseRepo.Clear()
	s.stores.InvoiceRepo.Clear()
	s.stores.PaymentRepo.Clear()
	s.stores.DisputeRepo.Clear()
	s.stores.ApplicationRepo.Clear()
	s.stores.UserRepo.Clear()
}
