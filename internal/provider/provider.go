// Package provider defines the capability contract shared by the
// bibliographic backends and the registry that orders them.
package provider

import (
	"context"

	"github.com/scholarlab/citelens/internal/model"
)

// Work is a provider-neutral view of one bibliographic record: just enough
// to match it against a query and to enumerate its citing works.
type Work struct {
	Provider string
	ID       string
	DOI      string
	Title    string
	Year     int
	Date     string
	Authors  []string

	// CitingRef locates the work's citing-works collection for ListCiting.
	// Empty when the provider cannot enumerate citing works for this record.
	CitingRef string

	// InstitutionTypes are the distinct lowercased institution-type strings
	// across the work's authors, in the provider's own vocabulary.
	InstitutionTypes []string
}

// CitingWork is one entry of a citing-works page.
type CitingWork struct {
	Year             int
	Date             string
	InstitutionTypes []string
}

// CitingPage is one page of a citing-works walk. Next is the token for the
// following page and is empty when the walk is complete.
type CitingPage struct {
	Works []CitingWork
	Next  string
}

// ListOptions tunes a citing-works page fetch.
type ListOptions struct {
	// PageSize is the requested page size; zero selects the provider default.
	PageSize int

	// IncludeInstitutions requests author-institution metadata on each
	// citing work, for sector classification during the same walk.
	IncludeInstitutions bool

	// Cursor selects cursor-style pagination on providers that offer both
	// numbered pages and opaque cursors.
	Cursor bool
}

// Provider is one bibliographic backend. Implementations translate their
// provider's wire protocol into the neutral types above; a call that fails
// for any reason is reported as an error and the caller treats it as "this
// provider returned nothing".
type Provider interface {
	// Name identifies the provider in results and logs.
	Name() string

	// FetchByIdentifier looks a work up by persistent identifier. An
	// identifier the provider has no key for yields (nil, nil); a work the
	// provider does not know is an error like any other failure.
	FetchByIdentifier(ctx context.Context, id model.Identifier) (*Work, error)

	// SearchByTitle returns up to limit candidate works for a title query,
	// in the provider's own ranking order.
	SearchByTitle(ctx context.Context, title string, limit int) ([]Work, error)

	// IdentifierRef derives a citing-works locator directly from a trusted
	// identifier without a network call, or "" when the provider needs a
	// metadata fetch first.
	IdentifierRef(id model.Identifier) string

	// ListCiting fetches one page of the citing-works collection behind
	// ref. An empty token starts the walk.
	ListCiting(ctx context.Context, ref, token string, opts ListOptions) (*CitingPage, error)

	// SupportsAffiliations reports whether citing works carry
	// institution-type metadata on this provider.
	SupportsAffiliations() bool
}
