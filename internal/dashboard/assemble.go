package dashboard

import (
	"govis/internal/aggregate"
)

// Assemble reshapes res into the response payload. Lists are never nil so
// they encode as [] rather than null.
func Assemble(res aggregate.Result) Payload {
	p := Payload{
		Summary: Summary{
			TotalAmount:       amount(res.Summary.TotalAmount),
			TotalProjects:     res.Summary.TotalProjects,
			UniqueContractors: res.Summary.UniqueContractors,
			AverageAmount:     amount(res.Summary.AverageAmount),
			Competitiveness:   res.Summary.Competitiveness,
		},
		MinistryBreakdown:  make([]MinistryRow, 0, len(res.Ministries)),
		ContractTypes:      make([]ContractTypeRow, 0, len(res.ContractTypes)),
		TopContractors:     make([]ContractorRow, 0, len(res.TopContractors)),
		SizeDistribution:   make(SizeDistribution, 0, len(res.SizeDistribution)),
		HighValueContracts: make([]HighValueRow, 0, len(res.HighValue)),
		ExpenseAnalysis: ExpenseAnalysis{
			ByType:              make([]ExpenseRow, 0, len(res.Expenses.ByType)),
			TotalExpenseRecords: res.Expenses.TotalRecords,
		},
		Transparency: TransparencyScores{
			CompetitiveContractRatio: res.Transparency.CompetitiveRatio,
			AverageBidders:           round1(res.Transparency.AverageBidders),
			TransparencyScore:        round1(res.Transparency.Score),
			SingleBidderRatio:        round1(res.Transparency.SingleBidderRatio),
			TotalBiddingContracts:    res.Transparency.BiddingContracts,
		},
	}
	if res.Summary.LastUpdated != "" {
		year := res.Summary.LastUpdated
		p.Summary.LastUpdated = &year
	}

	for _, m := range res.Ministries {
		p.MinistryBreakdown = append(p.MinistryBreakdown, MinistryRow{
			Ministry:   m.Ministry,
			Amount:     amount(m.Amount),
			Projects:   m.Projects,
			Percentage: m.Percentage,
		})
	}
	for _, c := range res.ContractTypes {
		p.ContractTypes = append(p.ContractTypes, ContractTypeRow{
			Type:       c.Method,
			Count:      c.Count,
			Percentage: c.Percentage,
		})
	}
	for _, c := range res.TopContractors {
		p.TopContractors = append(p.TopContractors, ContractorRow{
			Contractor: c.Contractor,
			Amount:     amount(c.Amount),
			Count:      c.Count,
		})
	}
	for _, b := range res.SizeDistribution {
		p.SizeDistribution = append(p.SizeDistribution, Bracket{Label: b.Label, Count: b.Count})
	}
	for _, h := range res.HighValue {
		raw := h.RawAmount
		if raw == "" {
			raw = h.Amount.String()
		}
		p.HighValueContracts = append(p.HighValueContracts, HighValueRow{
			ContractName: h.ContractName,
			Amount:       raw,
			Ministry:     h.Ministry,
			ID:           h.ID,
		})
	}
	for _, e := range res.Expenses.ByType {
		p.ExpenseAnalysis.ByType = append(p.ExpenseAnalysis.ByType, ExpenseRow{
			Type:       e.ExpenseType,
			Amount:     amount(e.Amount),
			Percentage: e.Percentage,
		})
	}
	return p
}
