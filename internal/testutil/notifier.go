package testutil

import (
	"context"
	"sync"

	"github.com/rentflow/rentflow/internal/domain/invoice"
	"github.com/rentflow/rentflow/internal/domain/lease"
	"github.com/rentflow/rentflow/internal/notification"
)

// SentNotification records one dispatched notification for assertions.
type SentNotification struct {
	Kind      string
	LeaseID   string
	InvoiceID string
}

// CaptureNotifier implements notification.Dispatcher by recording every
// dispatched event instead of sending email.
type CaptureNotifier struct {
	mu   sync.Mutex
	sent []SentNotification

	// Err, when set, is returned from every send so tests can check that
	// notification failures never roll back the triggering operation.
	Err error
}

// NewCaptureNotifier creates a capturing dispatcher.
func NewCaptureNotifier() *CaptureNotifier {
	return &CaptureNotifier{}
}

var _ notification.Dispatcher = (*CaptureNotifier)(nil)

func (n *CaptureNotifier) record(kind, leaseID, invoiceID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentNotification{Kind: kind, LeaseID: leaseID, InvoiceID: invoiceID})
	return n.Err
}

func (n *CaptureNotifier) SendInvoiceCreatedToTenant(ctx context.Context, inv *invoice.Invoice, l *lease.Lease) error {
	return n.record("invoice_created_tenant", l.ID, inv.ID)
}

func (n *CaptureNotifier) SendInvoiceCreatedToLandlord(ctx context.Context, inv *invoice.Invoice, l *lease.Lease) error {
	return n.record("invoice_created_landlord", l.ID, inv.ID)
}

func (n *CaptureNotifier) SendLeaseActivated(ctx context.Context, l *lease.Lease) error {
	return n.record("lease_activated", l.ID, "")
}

func (n *CaptureNotifier) SendLeaseTerminated(ctx context.Context, l *lease.Lease) error {
	return n.record("lease_terminated", l.ID, "")
}

// Sent returns a snapshot of the recorded notifications.
func (n *CaptureNotifier) Sent() []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentNotification, len(n.sent))
	copy(out, n.sent)
	return out
}

// SentOfKind returns the recorded notifications of one kind.
func (n *CaptureNotifier) SentOfKind(kind string) []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []SentNotification
	for _, s := range n.sent {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Clear drops the recorded notifications.
func (n *CaptureNotifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
	n.Err = nil
}
