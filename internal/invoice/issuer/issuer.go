// Package issuer combines the per-tenant sequence with template
// formatting to produce invoice numbers.
package issuer

import (
	"context"

	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/invoice/format"
	"github.com/smallbiznis/numera/internal/invoice/sequence"
)

// Issued is a reserved counter value and its formatted invoice number.
type Issued struct {
	Counter int64
	Number  string
}

type Issuer struct {
	seq *sequence.Store
	clk clock.Clock
}

func New(seq *sequence.Store, clk clock.Clock) *Issuer {
	return &Issuer{seq: seq, clk: clk}
}

// Issue reserves the next counter value for the tenant and formats it
// with the tenant's template. The sequence is advanced exactly once and
// never retried; once a value is returned it is consumed no matter what
// happens downstream.
func (i *Issuer) Issue(ctx context.Context, tenantID, template string) (Issued, error) {
	counter, err := i.seq.Next(ctx, tenantID)
	if err != nil {
		return Issued{}, err
	}

	return Issued{
		Counter: counter,
		Number:  format.Render(template, counter, i.clk.Now()),
	}, nil
}
