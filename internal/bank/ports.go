package bank

import (
	"context"
	"errors"

	"finflow/internal/core"
)

// ErrUnknownInstitution reports a fetch or link for an institution the
// provider does not serve.
var ErrUnknownInstitution = errors.New("unknown institution")

// LinkSession is the result of a bank-link handshake.
type LinkSession struct {
	PublicToken string
	Metadata    core.LinkMetadata
}

// Provider is the outbound port to an external bank feed.
type (
	Provider interface {
		// BeginLink starts the link handshake for an institution and
		// returns a public token plus descriptive metadata.
		BeginLink(ctx context.Context, institutionID string) (LinkSession, error)

		// FetchRawTransactions returns the current feed batch for an
		// institution. External identifiers are stable across calls so
		// repeated fetches deduplicate cleanly.
		FetchRawTransactions(ctx context.Context, institutionID string) ([]core.RawTransaction, error)
	}

	// InstitutionLister enumerates the institutions a provider can link.
	InstitutionLister interface {
		ListInstitutions(ctx context.Context) ([]core.LinkMetadata, error)
	}
)
