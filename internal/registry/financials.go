package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/model"
)

// Column positions in a balance-sheet row. The layout is dictated by the
// registry site; keep every index here.
const (
	colYear          = 0
	colRevenue       = 1
	colProfit        = 2
	colLiabilities   = 3
	colFixedAssets   = 4
	colCurrentAssets = 5
	colEmployees     = 7

	minRowCells = 8
	minDataRows = 2
)

// Year sanity bounds for row selection. The current-period scan requires a
// post-2000 year; the oldest-period scan accepts anything after 1900.
const (
	currentYearFloor = 2000
	oldestYearFloor  = 1900
)

// FetchFinancials locates the balance-sheet table on a registry company
// page and extracts a snapshot from its most recent reporting row. All
// failures - missing section, short table, malformed cells - fold into an
// error; callers treat any error as "no financials".
func (c *Client) FetchFinancials(ctx context.Context, companyPageURL string) (*model.FinancialSnapshot, error) {
	doc, err := c.fetcher.Document(ctx, companyPageURL)
	if err != nil {
		return nil, err
	}

	section := doc.Find("div#bilant").First()
	if section.Length() == 0 {
		return nil, fmt.Errorf("%w: balance-sheet section on %s", common.ErrParse, companyPageURL)
	}

	table := section.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: balance-sheet table on %s", common.ErrParse, companyPageURL)
	}

	return snapshotFromRows(tableRows(table), c.refYear)
}

// tableRows collects cell text per row, preferring tbody rows when present.
func tableRows(table *goquery.Selection) [][]string {
	scope := table.Find("tbody").First()
	if scope.Length() == 0 {
		scope = table
	}

	var rows [][]string
	scope.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

// snapshotFromRows applies the row-selection policy: the current row is the
// first one top-down with a year-like first cell, the oldest row the first
// one bottom-up; company age is the distance from the oldest year to the
// reference year.
func snapshotFromRows(rows [][]string, refYear int) (*model.FinancialSnapshot, error) {
	if len(rows) < minDataRows {
		return nil, fmt.Errorf("%w: %d balance-sheet rows", common.ErrParse, len(rows))
	}

	current := findYearRow(rows, currentYearFloor, false)
	oldest := findYearRow(rows, oldestYearFloor, true)
	if current == nil || oldest == nil {
		return nil, fmt.Errorf("%w: no year-like balance-sheet rows", common.ErrParse)
	}

	if len(current) < minRowCells {
		return nil, fmt.Errorf("%w: %d cells in current row", common.ErrParse, len(current))
	}

	oldestYear, err := parseAmount(oldest[colYear])
	if err != nil {
		return nil, fmt.Errorf("%w: oldest year: %v", common.ErrData, err)
	}
	age := refYear - int(oldestYear)
	if age < 0 {
		age = 0
	}

	revenue, err := parseAmount(current[colRevenue])
	if err != nil {
		return nil, fmt.Errorf("%w: revenue: %v", common.ErrData, err)
	}
	profit, err := parseAmount(current[colProfit])
	if err != nil {
		return nil, fmt.Errorf("%w: profit: %v", common.ErrData, err)
	}
	liabilities, err := parseAmount(current[colLiabilities])
	if err != nil {
		return nil, fmt.Errorf("%w: liabilities: %v", common.ErrData, err)
	}
	fixedAssets, err := parseAmount(current[colFixedAssets])
	if err != nil {
		return nil, fmt.Errorf("%w: fixed assets: %v", common.ErrData, err)
	}
	currentAssets, err := parseAmount(current[colCurrentAssets])
	if err != nil {
		return nil, fmt.Errorf("%w: current assets: %v", common.ErrData, err)
	}
	employees, err := parseAmount(current[colEmployees])
	if err != nil {
		return nil, fmt.Errorf("%w: employees: %v", common.ErrData, err)
	}

	return &model.FinancialSnapshot{
		Revenue:     revenue,
		Profit:      profit,
		Liabilities: liabilities,
		TotalAssets: fixedAssets + currentAssets,
		Employees:   int(employees),
		AgeYears:    age,
	}, nil
}

// findYearRow scans rows (top-down, or bottom-up when reverse is set) for
// the first row whose first cell parses as an integer above floor.
func findYearRow(rows [][]string, floor int, reverse bool) []string {
	for i := range rows {
		idx := i
		if reverse {
			idx = len(rows) - 1 - i
		}
		row := rows[idx]
		year, err := parseAmount(row[colYear])
		if err == nil && year > int64(floor) {
			return row
		}
	}
	return nil
}

// cleanNumber canonicalizes a financial cell: spaces, non-breaking spaces
// and both dot and comma thousands separators are stripped; a result not
// ending in a digit is treated as zero. Decimal fractions do not occur in
// these integer fields, so comma is always a separator here.
func cleanNumber(raw string) string {
	cleaned := strings.NewReplacer(" ", "", " ", "", ".", "", ",", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" || cleaned[len(cleaned)-1] < '0' || cleaned[len(cleaned)-1] > '9' {
		return "0"
	}
	return cleaned
}

func parseAmount(raw string) (int64, error) {
	return strconv.ParseInt(cleanNumber(raw), 10, 64)
}
