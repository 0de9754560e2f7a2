// Package mirror defines the outbound port for exporting ledger rows to
// an external spreadsheet.
package mirror

import (
	"context"

	"tracker/internal/core"
)

// Appender writes one transaction to the mirror and returns an opaque
// reference to the written row.
type Appender interface {
	Append(ctx context.Context, t core.Transaction) (ref string, err error)
}
