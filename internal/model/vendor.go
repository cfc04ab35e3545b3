// Package model defines the core domain types shared across the application.
package model

// VendorIdentity is a seller's legal identity as published on its
// marketplace profile page. It is never persisted on its own; only the
// Verdict derived from it is cached.
type VendorIdentity struct {
	Name             string
	RegistrationCode string
}

// FinancialSnapshot holds the figures extracted from the most recent row of
// a company's balance-sheet table, plus the company age derived from the
// oldest reported year.
type FinancialSnapshot struct {
	Revenue     int64
	Profit      int64
	Liabilities int64
	TotalAssets int64
	Employees   int
	AgeYears    int
}

// VerdictReason records why a vendor ended up with its verdict. It widens
// the verdict for observability without affecting scoring or ranking.
type VerdictReason string

const (
	// ReasonEligible marks a vendor classified as a small business.
	ReasonEligible VerdictReason = "ELIGIBLE"
	// ReasonTooLarge marks a vendor above the small-business thresholds.
	ReasonTooLarge VerdictReason = "TOO_LARGE"
	// ReasonNoFinancials marks a vendor whose registry data could not be
	// fetched or parsed.
	ReasonNoFinancials VerdictReason = "NO_FINANCIALS"
)

// Verdict is the cached unit of vendor assessment.
// Invariant: Score is 0 whenever IsSmallBusiness is false.
type Verdict struct {
	IsSmallBusiness bool          `json:"isValid"`
	Score           int           `json:"score"`
	Reason          VerdictReason `json:"reason,omitempty"`
}

// RankedResult joins an accepted product with its vendor's verdict. Batches
// are returned sorted by Score descending.
type RankedResult struct {
	Product    Product `json:"product"`
	VendorName string  `json:"vendorName"`
	Score      int     `json:"score"`
}
