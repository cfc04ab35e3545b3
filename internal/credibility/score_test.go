package credibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellerscout/seller-scout/internal/model"
)

func TestIsSmallBusiness(t *testing.T) {
	tests := []struct {
		name        string
		revenue     int64
		totalAssets int64
		employees   int
		want        bool
	}{
		{
			name:        "all thresholds at their edges",
			revenue:     50_000_000,
			totalAssets: 50_000_000,
			employees:   49,
			want:        true,
		},
		{
			name:    "revenue one over",
			revenue: 50_000_001,
			want:    false,
		},
		{
			name:        "assets one over",
			totalAssets: 50_000_001,
			want:        false,
		},
		{
			name:      "headcount bound is exclusive",
			employees: 50,
			want:      false,
		},
		{
			name: "zero everything",
			want: true,
		},
		{
			name:        "typical small company",
			revenue:     1_200_000,
			totalAssets: 450_000,
			employees:   8,
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsSmallBusiness(tt.revenue, tt.totalAssets, tt.employees)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		profit      int64
		liabilities int64
		ageYears    int
		want        int
	}{
		{
			name: "brand new company with no books scores zero",
			want: 0,
		},
		{
			name:        "profitable established company",
			profit:      500_000,
			liabilities: 200_000,
			ageYears:    15,
			want:        97,
		},
		{
			name:     "company with zero denominator gets age credit only",
			ageYears: 7,
			want:     14,
		},
		{
			name:        "deep loss clamps at zero",
			profit:      -100,
			liabilities: 250_000,
			ageYears:    1,
			want:        0,
		},
		{
			name:        "negative liabilities use magnitude",
			profit:      10_000,
			liabilities: -250_000,
			ageYears:    2,
			want:        84,
		},
		{
			name:     "negative age treated as zero",
			profit:   1000,
			ageYears: -5,
			want:     80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.profit, tt.liabilities, tt.ageYears)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	profits := []int64{-1_000_000_000, -1, 0, 1, 999, 50_000_000, 1_000_000_000_000}
	liabilities := []int64{-5_000_000_000, -1, 0, 1, 123_456, 9_000_000_000}
	ages := []int{-10, 0, 1, 3, 25, 150}

	for _, p := range profits {
		for _, l := range liabilities {
			for _, a := range ages {
				got := Score(p, l, a)
				assert.GreaterOrEqual(t, got, 0, "profit=%d liabilities=%d age=%d", p, l, a)
				assert.LessOrEqual(t, got, 100, "profit=%d liabilities=%d age=%d", p, l, a)
			}
		}
	}
}

func TestAssess(t *testing.T) {
	t.Run("large company scores zero with reason", func(t *testing.T) {
		verdict := Assess(model.FinancialSnapshot{
			Revenue:  80_000_000,
			Profit:   5_000_000,
			AgeYears: 20,
		})
		assert.False(t, verdict.IsSmallBusiness)
		assert.Equal(t, 0, verdict.Score)
		assert.Equal(t, model.ReasonTooLarge, verdict.Reason)
	})

	t.Run("eligible company gets a scored verdict", func(t *testing.T) {
		verdict := Assess(model.FinancialSnapshot{
			Revenue:     2_500_000,
			Profit:      500_000,
			Liabilities: 200_000,
			TotalAssets: 900_000,
			Employees:   12,
			AgeYears:    15,
		})
		assert.True(t, verdict.IsSmallBusiness)
		assert.Equal(t, 97, verdict.Score)
		assert.Equal(t, model.ReasonEligible, verdict.Reason)
	})
}
