// Package export renders a dashboard payload as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"govis/internal/dashboard"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetSummary      = "Summary"
	SheetMinistries   = "Ministries"
	SheetContractType = "ContractTypes"
	SheetContractors  = "Contractors"
	SheetSizes        = "SizeDistribution"
	SheetHighValue    = "HighValue"
	SheetExpenses     = "Expenses"
	SheetTransparency = "Transparency"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// WriteDashboard writes one sheet per dashboard view to w.
func WriteDashboard(w io.Writer, p dashboard.Payload) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets(p) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}

		if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
			return fmt.Errorf("write %s header: %w", s.name, err)
		}
		if err := f.SetRowStyle(s.name, 1, 1, bold); err != nil {
			return fmt.Errorf("style %s header: %w", s.name, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", s.name, r+2, err)
			}
		}
		if err := f.SetColWidth(s.name, "A", "A", 36); err != nil {
			return fmt.Errorf("size %s columns: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func sheets(p dashboard.Payload) []sheet {
	lastUpdated := ""
	if p.Summary.LastUpdated != nil {
		lastUpdated = *p.Summary.LastUpdated
	}

	out := []sheet{
		{
			name:   SheetSummary,
			header: []any{"Metric", "Value"},
			rows: [][]any{
				{"totalAmount", p.Summary.TotalAmount},
				{"totalProjects", p.Summary.TotalProjects},
				{"uniqueContractors", p.Summary.UniqueContractors},
				{"averageAmount", p.Summary.AverageAmount},
				{"competitiveness", p.Summary.Competitiveness},
				{"lastUpdated", lastUpdated},
			},
		},
		{name: SheetMinistries, header: []any{"Ministry", "Amount", "Projects", "Percentage"}},
		{name: SheetContractType, header: []any{"Type", "Count", "Percentage"}},
		{name: SheetContractors, header: []any{"Contractor", "Amount", "Count"}},
		{name: SheetSizes, header: []any{"Bracket", "Count"}},
		{name: SheetHighValue, header: []any{"ID", "Contract", "Amount", "Ministry"}},
		{name: SheetExpenses, header: []any{"Type", "Amount", "Percentage"}},
		{
			name:   SheetTransparency,
			header: []any{"Metric", "Value"},
			rows: [][]any{
				{"competitiveContractRatio", p.Transparency.CompetitiveContractRatio},
				{"averageBidders", p.Transparency.AverageBidders},
				{"transparencyScore", p.Transparency.TransparencyScore},
				{"singleBidderRatio", p.Transparency.SingleBidderRatio},
				{"totalBiddingContracts", p.Transparency.TotalBiddingContracts},
			},
		},
	}

	for _, m := range p.MinistryBreakdown {
		out[1].rows = append(out[1].rows, []any{m.Ministry, m.Amount, m.Projects, m.Percentage})
	}
	for _, c := range p.ContractTypes {
		out[2].rows = append(out[2].rows, []any{c.Type, c.Count, c.Percentage})
	}
	for _, c := range p.TopContractors {
		out[3].rows = append(out[3].rows, []any{c.Contractor, c.Amount, c.Count})
	}
	for _, b := range p.SizeDistribution {
		out[4].rows = append(out[4].rows, []any{b.Label, b.Count})
	}
	for _, h := range p.HighValueContracts {
		out[5].rows = append(out[5].rows, []any{h.ID, h.ContractName, h.Amount, h.Ministry})
	}
	for _, e := range p.ExpenseAnalysis.ByType {
		out[6].rows = append(out[6].rows, []any{e.Type, e.Amount, e.Percentage})
	}
	return out
}
