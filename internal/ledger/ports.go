// Package ledger defines the outbound port for mirroring persisted
// transactions to an external spreadsheet ledger.
package ledger

import (
	"context"

	"finflow/internal/core"
)

// Appender writes one transaction to the external ledger and returns a
// reference to the written row.
type Appender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
