package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/types"
)

// NumberSequence backs lease and invoice number generation. One row per
// (scope, period); the row is locked while the next value is reserved so
// numbers are unique under concurrent callers.
type NumberSequence struct {
	Scope     string `gorm:"column:scope;primaryKey"`
	Period    string `gorm:"column:period;primaryKey"`
	LastValue int64  `gorm:"column:last_value;not null"`
}

// TableName implements the gorm table-name convention.
func (NumberSequence) TableName() string {
	return string(types.TableNameNumberSequences)
}

const (
	sequenceScopeLease   = "lease"
	sequenceScopeInvoice = "invoice"
)

// nextNumber reserves the next value for (scope, period) and formats it as
// PREFIX<sep>PERIOD<sep>NNNNN.
func (c *Client) nextNumber(ctx context.Context, scope, period, prefix, separator string, suffixLen int) (string, error) {
	var value int64
	err := c.WithTx(ctx, func(ctx context.Context) error {
		tx := c.Conn(ctx)

		seq := NumberSequence{Scope: scope, Period: period, LastValue: 0}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("scope = ? AND period = ?", scope, period).
			First(&seq).Error; err != nil {
			return err
		}

		seq.LastValue++
		value = seq.LastValue
		return tx.Model(&NumberSequence{}).
			Where("scope = ? AND period = ?", scope, period).
			Update("last_value", seq.LastValue).Error
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to reserve the next number").
			WithReportableDetails(map[string]interface{}{
				"scope":  scope,
				"period": period,
			}).
			Mark(ierr.ErrDatabase)
	}

	return fmt.Sprintf("%s%s%s%s%0*d", prefix, separator, period, separator, suffixLen, value), nil
}

// notFound translates gorm lookup errors into the error taxonomy.
func notFound(err error, hint string, details map[string]interface{}) error {
	if err == gorm.ErrRecordNotFound {
		return ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(details).
		Mark(ierr.ErrDatabase)
}
