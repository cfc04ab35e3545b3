package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/fetch"
)

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1 234,00", "123400"},
		{"1.234", "1234"},
		{"1.234.567", "1234567"},
		{"-12.500", "-12500"},
		{"2024", "2024"},
		{"", "0"},
		{"N/A", "0"},
		{"-", "0"},
		{"1 234", "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanNumber(tt.raw))
		})
	}
}

func TestSnapshotFromRows(t *testing.T) {
	rows := [][]string{
		{"An", "Cifra de afaceri", "Profit", "Datorii", "Active imobilizate", "Active circulante", "Capitaluri", "Angajati"},
		{"2024", "1.200.000", "150.000", "80.000", "50.000", "400.000", "470.000", "12"},
		{"2023", "900.000", "90.000", "60.000", "45.000", "300.000", "330.000", "10"},
		{"2010", "100.000", "5.000", "10.000", "5.000", "40.000", "35.000", "2"},
	}

	snap, err := snapshotFromRows(rows, 2025)
	require.NoError(t, err)

	assert.Equal(t, int64(1_200_000), snap.Revenue)
	assert.Equal(t, int64(150_000), snap.Profit)
	assert.Equal(t, int64(80_000), snap.Liabilities)
	assert.Equal(t, int64(450_000), snap.TotalAssets)
	assert.Equal(t, 12, snap.Employees)
	assert.Equal(t, 15, snap.AgeYears)
}

func TestSnapshotFromRowsEdgeCases(t *testing.T) {
	t.Run("too few rows", func(t *testing.T) {
		_, err := snapshotFromRows([][]string{{"2024"}}, 2025)
		assert.ErrorIs(t, err, common.ErrParse)
	})

	t.Run("no year-like rows", func(t *testing.T) {
		rows := [][]string{
			{"An", "CA", "Profit"},
			{"Total", "x", "y"},
		}
		_, err := snapshotFromRows(rows, 2025)
		assert.ErrorIs(t, err, common.ErrParse)
	})

	t.Run("short current row", func(t *testing.T) {
		rows := [][]string{
			{"2024", "1.000", "100", "50", "10", "20"},
			{"2023", "900", "90", "40", "10", "20"},
		}
		_, err := snapshotFromRows(rows, 2025)
		assert.ErrorIs(t, err, common.ErrParse)
	})

	t.Run("future oldest year clamps age to zero", func(t *testing.T) {
		rows := [][]string{
			{"2026", "1.000", "100", "50", "10", "20", "30", "3"},
			{"2026", "1.000", "100", "50", "10", "20", "30", "3"},
		}
		snap, err := snapshotFromRows(rows, 2025)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.AgeYears)
	})

	t.Run("blank numeric cells parse as zero", func(t *testing.T) {
		rows := [][]string{
			{"2024", "", "-", "N/A", "", "", "", ""},
			{"2020", "100", "10", "5", "1", "2", "3", "1"},
		}
		snap, err := snapshotFromRows(rows, 2025)
		require.NoError(t, err)
		assert.Equal(t, int64(0), snap.Revenue)
		assert.Equal(t, int64(0), snap.Profit)
		assert.Equal(t, 5, snap.AgeYears)
	})
}

func TestFetchFinancials(t *testing.T) {
	page := `<html><body>
	<div id="bilant">
		<table>
			<thead><tr><th>An</th></tr></thead>
			<tbody>
				<tr><td>2024</td><td>1.200.000</td><td>150.000</td><td>80.000</td><td>50.000</td><td>400.000</td><td>470.000</td><td>12</td></tr>
				<tr><td>2015</td><td>200.000</td><td>20.000</td><td>15.000</td><td>5.000</td><td>60.000</td><td>50.000</td><td>4</td></tr>
			</tbody>
		</table>
	</div>
	</body></html>`

	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))

	snap, err := client.FetchFinancials(context.Background(), srv.URL+"/electro-shop-12345678/")
	require.NoError(t, err)
	assert.Equal(t, int64(1_200_000), snap.Revenue)
	assert.Equal(t, int64(450_000), snap.TotalAssets)
	assert.Equal(t, 10, snap.AgeYears)
}

func TestFetchFinancialsMissingSection(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Nothing filed</p></body></html>`))
	}))

	_, err := client.FetchFinancials(context.Background(), srv.URL+"/ghost-1/")
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestFetchFinancialsCompanyPageGone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := New(fetch.New(fetch.Config{}), Config{BaseURL: srv.URL, ReferenceYear: 2025})
	_, err := client.FetchFinancials(context.Background(), srv.URL+"/gone-2/")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
