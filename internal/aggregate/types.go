package aggregate

import (
	"github.com/shopspring/decimal"

	"govis/internal/core"
)

// Input is the fully materialized record set for one aggregation.
type Input struct {
	Records  []core.ExpenditureRecord
	Expenses []core.ExpenseRecord
}

// Result holds every derived view of one record set.
type Result struct {
	Summary          Summary
	Ministries       []MinistryTotal
	ContractTypes    []ContractTypeShare
	TopContractors   []ContractorTotal
	SizeDistribution []SizeBucket
	HighValue        []HighValueContract
	Expenses         ExpenseAnalysis
	Transparency     Transparency
}

type Summary struct {
	TotalAmount       decimal.Decimal
	TotalProjects     int
	UniqueContractors int
	AverageAmount     decimal.Decimal
	Competitiveness   float64
	// LastUpdated is the latest reporting year seen, "" when none.
	LastUpdated string
}

type MinistryTotal struct {
	Ministry   string
	Amount     decimal.Decimal
	Projects   int
	Percentage float64
}

type ContractTypeShare struct {
	Method     string
	Count      int
	Percentage float64
}

type ContractorTotal struct {
	Contractor string
	Amount     decimal.Decimal
	Count      int
}

// SizeBucket counts records whose amount falls in [Lower, Upper).
// A zero Upper means unbounded.
type SizeBucket struct {
	Label string
	Lower decimal.Decimal
	Upper decimal.Decimal
	Count int
}

// HighValueContract is one entry of the high-value list. ID is built from
// rank, name and RawAmount so it only keys UI lists. RawAmount is the
// upstream text when the source delivered text ("1,000,000") and the
// canonical decimal otherwise ("1000000"), so the same contract gets
// different IDs from text and numeric backends.
type HighValueContract struct {
	ID           string
	ContractName string
	Amount       decimal.Decimal
	RawAmount    string
	Ministry     string
}

type ExpenseTotal struct {
	ExpenseType string
	Amount      decimal.Decimal
	Percentage  float64
}

type ExpenseAnalysis struct {
	ByType       []ExpenseTotal
	TotalRecords int
}

type Transparency struct {
	CompetitiveRatio  float64
	AverageBidders    float64
	SingleBidderRatio float64
	Score             float64
	BiddingContracts  int
}
