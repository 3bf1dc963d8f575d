// Package dashboard shapes aggregation results into the JSON payload served
// by the dashboard endpoint and builds it from a row source.
package dashboard

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	"govis/internal/aggregate"
)

// Payload is the dashboard response body.
type Payload struct {
	Summary            Summary            `json:"summary"`
	MinistryBreakdown  []MinistryRow      `json:"ministryBreakdown"`
	ContractTypes      []ContractTypeRow  `json:"contractTypes"`
	TopContractors     []ContractorRow    `json:"topContractors"`
	SizeDistribution   SizeDistribution   `json:"sizeDistribution"`
	HighValueContracts []HighValueRow     `json:"highValueContracts"`
	ExpenseAnalysis    ExpenseAnalysis    `json:"expenseAnalysis"`
	Transparency       TransparencyScores `json:"transparency"`
}

type Summary struct {
	TotalAmount       float64 `json:"totalAmount"`
	TotalProjects     int     `json:"totalProjects"`
	UniqueContractors int     `json:"uniqueContractors"`
	AverageAmount     float64 `json:"averageAmount"`
	Competitiveness   float64 `json:"competitiveness"`
	// LastUpdated is null when no record carries a year.
	LastUpdated *string `json:"lastUpdated"`
}

type MinistryRow struct {
	Ministry   string  `json:"ministry"`
	Amount     float64 `json:"amount"`
	Projects   int     `json:"projects"`
	Percentage float64 `json:"percentage"`
}

type ContractTypeRow struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ContractorRow struct {
	Contractor string  `json:"contractor"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
}

// HighValueRow carries the amount as text so large yen values survive
// clients that parse numbers as doubles.
type HighValueRow struct {
	ContractName string `json:"contractName"`
	Amount       string `json:"amount"`
	Ministry     string `json:"ministry"`
	ID           string `json:"id"`
}

type ExpenseRow struct {
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type ExpenseAnalysis struct {
	ByType              []ExpenseRow `json:"byType"`
	TotalExpenseRecords int          `json:"totalExpenseRecords"`
}

type TransparencyScores struct {
	CompetitiveContractRatio float64 `json:"competitiveContractRatio"`
	AverageBidders           float64 `json:"averageBidders"`
	TransparencyScore        float64 `json:"transparencyScore"`
	SingleBidderRatio        float64 `json:"singleBidderRatio"`
	TotalBiddingContracts    int     `json:"totalBiddingContracts"`
}

// Bracket is one size-distribution entry.
type Bracket struct {
	Label string
	Count int
}

// SizeDistribution encodes as a JSON object keyed by bracket label, keys in
// bracket order from smallest to largest.
type SizeDistribution []Bracket

func (d SizeDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		count, _ := json.Marshal(b.Count)
		buf.Write(count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any object of label to count. Key order follows the
// document.
func (d *SizeDistribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var out SizeDistribution
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := tok.(string)
		var count int
		if err := dec.Decode(&count); err != nil {
			return err
		}
		out = append(out, Bracket{Label: label, Count: count})
	}
	*d = out
	return nil
}

// Count returns the count for label, 0 when absent.
func (d SizeDistribution) Count(label string) int {
	for _, b := range d {
		if b.Label == label {
			return b.Count
		}
	}
	return 0
}

// Empty is the payload for an empty record set.
func Empty() Payload {
	return Assemble(aggregate.Aggregate(aggregate.Input{}, aggregate.DefaultOptions()))
}

// amount converts for JSON, which has no encoding for NaN or Inf.
func amount(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
