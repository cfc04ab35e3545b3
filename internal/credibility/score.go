// Package credibility holds the pure classification and scoring rules used
// to assess a vendor from its latest balance sheet. Nothing here performs I/O.
package credibility

import (
	"math"

	"github.com/sellerscout/seller-scout/internal/model"
)

// Small-business thresholds. Revenue and assets are inclusive bounds,
// headcount is exclusive.
const (
	maxRevenue   = 50_000_000
	maxAssets    = 50_000_000
	maxEmployees = 50
)

// Score weights and the age smoothing offset.
const (
	financialWeight = 0.8
	ageWeight       = 0.2
	ageOffset       = 3
)

// IsSmallBusiness reports whether a company falls under the fixed
// revenue/assets/headcount thresholds.
func IsSmallBusiness(revenue, totalAssets int64, employees int) bool {
	return revenue <= maxRevenue && totalAssets <= maxAssets && employees < maxEmployees
}

// Score computes the 0-100 credibility score from profit, liabilities and
// company age. The result is always clamped into [0,100]; any arithmetic
// fault degrades to 0.
func Score(profit, liabilities int64, ageYears int) int {
	if ageYears < 0 {
		ageYears = 0
	}

	denominator := float64(profit) + math.Sqrt(math.Abs(float64(liabilities)))

	var financialStrength float64
	if denominator != 0 {
		financialStrength = float64(profit) / denominator
	}

	ageStrength := float64(ageYears) / float64(ageYears+ageOffset)

	score := math.Round(100 * (financialWeight*financialStrength + ageWeight*ageStrength))
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// Assess combines classification and scoring into a Verdict. Vendors above
// the thresholds score 0 by invariant.
func Assess(snap model.FinancialSnapshot) model.Verdict {
	if !IsSmallBusiness(snap.Revenue, snap.TotalAssets, snap.Employees) {
		return model.Verdict{Reason: model.ReasonTooLarge}
	}
	return model.Verdict{
		IsSmallBusiness: true,
		Score:           Score(snap.Profit, snap.Liabilities, snap.AgeYears),
		Reason:          model.ReasonEligible,
	}
}
