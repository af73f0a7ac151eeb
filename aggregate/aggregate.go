// Package aggregate computes the summary views over a consolidated order
// collection: global totals with commission and fee, and the per-table
// ranking.
package aggregate

import (
	"fmt"
	"sort"

	"vendas-report/models"
	"vendas-report/utils"
)

// CommissionFormula names one of the two formulas the business has used.
type CommissionFormula string

const (
	// FormulaPercent is a flat percentage of the total value.
	FormulaPercent CommissionFormula = "percent"
	// FormulaPercentOffset is a percentage of the total value plus a fixed
	// fee offset.
	FormulaPercentOffset CommissionFormula = "percent_offset"
)

// Valid reports whether f names a known formula.
func (f CommissionFormula) Valid() bool {
	return f == FormulaPercent || f == FormulaPercentOffset
}

// Config holds the commission and fee parameters.
type Config struct {
	Formula          CommissionFormula
	CommissionRate   float64
	CommissionOffset float64
	FeeRate          float64
}

// Summary is the global view over all consolidated orders.
type Summary struct {
	TotalValue float64
	Commission float64
	Fee        float64
}

// Summarize totals the post-deduplication line totals and applies the
// configured commission and fee formulas. Monetary results are rounded to
// cents.
func Summarize(orders []models.OrderEvent, cfg Config) (Summary, error) {
	if !cfg.Formula.Valid() {
		return Summary{}, fmt.Errorf("unknown commission formula: %q", cfg.Formula)
	}

	var total float64
	for _, o := range orders {
		total += o.LineTotal
	}

	commission := total * cfg.CommissionRate
	if cfg.Formula == FormulaPercentOffset {
		commission += cfg.CommissionOffset
	}

	return Summary{
		TotalValue: utils.Round2(total),
		Commission: utils.Round2(commission),
		Fee:        utils.Round2(total * cfg.FeeRate),
	}, nil
}

// TableRank is one row of the per-table ranking.
type TableRank struct {
	Position int
	Table    string
	Total    float64
}

// Rank groups orders by table, sums line totals and orders descending by
// summed total. Ties keep first-encountered table order; positions are
// 1..K over the K distinct tables.
func Rank(orders []models.OrderEvent) []TableRank {
	totals := make(map[string]float64, len(orders))
	var tables []string
	for _, o := range orders {
		if _, seen := totals[o.Table]; !seen {
			tables = append(tables, o.Table)
		}
		totals[o.Table] += o.LineTotal
	}

	ranks := make([]TableRank, 0, len(tables))
	for _, t := range tables {
		ranks = append(ranks, TableRank{Table: t, Total: totals[t]})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Total > ranks[j].Total
	})
	for i := range ranks {
		ranks[i].Position = i + 1
	}
	return ranks
}
