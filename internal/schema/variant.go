// Package schema adapts the physical table layouts the expenditure data
// has been published in to the logical records in package core.
package schema

import (
	"fmt"

	"govis/internal/core"
)

// Variant names a physical schema shape.
type Variant string

const (
	// Wide is the single table with Japanese column names.
	Wide Variant = "wide"
	// Columns is the pair of tables with generic column_NN names.
	Columns Variant = "columns"
	// Normalized is projects_master/expenditures/expenditure_usages.
	Normalized Variant = "normalized"
)

// Variants lists every supported shape in a stable order.
func Variants() []Variant {
	return []Variant{Wide, Columns, Normalized}
}

func (v Variant) IsValid() bool {
	switch v {
	case Wide, Columns, Normalized:
		return true
	}
	return false
}

func (v Variant) String() string {
	return string(v)
}

// Queries holds the statements a SQL row source runs for a variant.
type Queries struct {
	Expenditures string
	Expenses     string
}

// Extractor turns raw rows of one schema shape into logical records.
type Extractor interface {
	Variant() Variant
	Queries() Queries
	// Expenditure never fails: missing or malformed fields read as zero values.
	Expenditure(row core.Row) core.ExpenditureRecord
	Expense(row core.Row) core.ExpenseRecord
}

// New returns the extractor for the given variant.
func New(v Variant) (Extractor, error) {
	switch v {
	case Wide:
		return wideExtractor(), nil
	case Columns:
		return columnsExtractor(), nil
	case Normalized:
		return normalizedExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown schema variant %q", v)
	}
}

// Fields maps logical fields to physical column names. An empty name means
// the shape does not carry that field.
type Fields struct {
	Year           string
	ProjectID      string
	ProjectName    string
	Ministry       string
	ContractName   string
	Contractor     string
	Amount         string
	ContractMethod string
	Bidders        string
	ExpenseType    string
	ExpenseAmount  string
}

type mappedExtractor struct {
	variant Variant
	fields  Fields
	queries Queries
}

func (m mappedExtractor) Variant() Variant { return m.variant }
func (m mappedExtractor) Queries() Queries { return m.queries }

func (m mappedExtractor) Expenditure(row core.Row) core.ExpenditureRecord {
	f := m.fields
	projectName := m.str(row, f.ProjectName)

	// Shapes without a project id identify projects by name within a year.
	id := m.str(row, f.ProjectID)
	if f.ProjectID == "" {
		id = projectName
	}

	contractName := m.str(row, f.ContractName)
	if contractName == "" {
		contractName = projectName
	}

	amount, raw := core.ExtractAmountText(row, f.Amount)
	rec := core.ExpenditureRecord{
		Ministry:       m.str(row, f.Ministry),
		Project:        core.ProjectKey{Year: core.ExtractYear(row, f.Year), ID: id},
		Amount:         amount,
		RawAmount:      raw,
		ContractMethod: m.str(row, f.ContractMethod),
		ContractorName: m.str(row, f.Contractor),
		ContractName:   contractName,
	}
	if f.Bidders != "" {
		rec.BidderCount = core.ExtractBidders(row, f.Bidders)
	}
	return rec
}

func (m mappedExtractor) Expense(row core.Row) core.ExpenseRecord {
	return core.ExpenseRecord{
		ExpenseType: m.str(row, m.fields.ExpenseType),
		Amount:      core.ExtractAmount(row, m.fields.ExpenseAmount),
	}
}

func (m mappedExtractor) str(row core.Row, field string) string {
	if field == "" {
		return ""
	}
	return core.ExtractString(row, field)
}
