// Package vetting runs the concurrent seller-credibility pipeline: resolving
// vendor identities, fetching financials, scoring, and ranking.
package vetting

import (
	"context"

	"github.com/sellerscout/seller-scout/internal/model"
)

// VendorResolver locates a product's seller and its registry page.
type VendorResolver interface {
	VendorProfileURL(ctx context.Context, productURL string) (string, error)
	ResolveVendor(ctx context.Context, profileURL string) (*model.VendorIdentity, error)
	CompanyPageURL(id model.VendorIdentity) string
}

// FinancialSource fetches a company's balance-sheet snapshot.
type FinancialSource interface {
	FetchFinancials(ctx context.Context, companyPageURL string) (*model.FinancialSnapshot, error)
}
