// Package core holds the logical record shapes shared by every schema
// variant, the field extraction helpers that read them out of raw rows,
// and the error taxonomy surfaced at the HTTP boundary.
package core

import (
	"github.com/shopspring/decimal"
)

type (
	// Row is one flat record as returned by a row source: column name to
	// scalar value, typically a string or nil.
	Row map[string]any

	// ProjectKey identifies the parent project of a spending line.
	ProjectKey struct {
		Year string
		ID   string
	}

	// ExpenditureRecord is one spending line item in its schema-independent form.
	ExpenditureRecord struct {
		Ministry       string
		Project        ProjectKey
		Amount         decimal.Decimal
		RawAmount      string // amount text as it appeared upstream
		ContractMethod string
		ContractorName string
		ContractName   string
		BidderCount    int // 0 means not applicable
	}

	// ExpenseRecord is one budget line from the expense collection.
	ExpenseRecord struct {
		ExpenseType string
		Amount      decimal.Decimal
	}
)

// IsZero reports whether the key carries no identifying field at all.
// Records with a zero key never count as projects.
func (k ProjectKey) IsZero() bool {
	return k.Year == "" && k.ID == ""
}

func (k ProjectKey) String() string {
	return k.Year + "/" + k.ID
}

// HasAmount reports whether the record contributes a positive amount.
func (r ExpenditureRecord) HasAmount() bool {
	return r.Amount.IsPositive()
}
