// Package aggregate folds logical expenditure records into the dashboard
// views. Everything here is a pure function of its input: no I/O, no
// shared state, safe to call concurrently on separate inputs.
package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"govis/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Aggregate computes every view over in. Empty input yields a valid
// all-zero result.
func Aggregate(in Input, opts Options) Result {
	opts = opts.withDefaults()

	var (
		total    decimal.Decimal
		positive []core.ExpenditureRecord
		lastYear string

		contractRecords, competitiveRecords       int
		biddingContracts, bidderSum, singleBidder int
	)
	projects := make(map[core.ProjectKey]struct{})
	contractors := make(map[string]struct{})
	ministries := newTallies()
	vendors := newTallies()
	methods := newTallies()
	sizes := newSizeBuckets()

	for _, r := range in.Records {
		total = total.Add(r.Amount)

		if !r.Project.IsZero() {
			projects[r.Project] = struct{}{}
		}
		if r.Project.Year != "" && laterYear(r.Project.Year, lastYear) {
			lastYear = r.Project.Year
		}
		if r.ContractorName != "" {
			contractors[r.ContractorName] = struct{}{}
		}

		if r.ContractMethod != "" {
			contractRecords++
			methods.add(r.ContractMethod, decimal.Zero, core.ProjectKey{})
			if isCompetitive(r.ContractMethod, opts.CompetitiveMarkers) {
				competitiveRecords++
			}
		}

		if r.BidderCount > 0 {
			biddingContracts++
			bidderSum += r.BidderCount
			if r.BidderCount == 1 {
				singleBidder++
			}
		}

		if !r.HasAmount() {
			continue
		}
		positive = append(positive, r)
		sizes.add(r.Amount)
		if r.Ministry != "" {
			ministries.add(r.Ministry, r.Amount, r.Project)
		}
		if r.ContractorName != "" {
			vendors.add(r.ContractorName, r.Amount, core.ProjectKey{})
		}
	}

	competitiveness := percentOf(competitiveRecords, contractRecords)

	res := Result{
		Summary: Summary{
			TotalAmount:       total,
			TotalProjects:     len(projects),
			UniqueContractors: len(contractors),
			AverageAmount:     safeDiv(total, decimal.NewFromInt(int64(len(projects)))),
			Competitiveness:   competitiveness,
			LastUpdated:       lastYear,
		},
		SizeDistribution: sizes,
		HighValue:        highValue(positive, opts.HighValueLimit),
		Expenses:         expenseAnalysis(in.Expenses, opts.TopExpenseTypes),
	}

	for _, t := range ministries.top(opts.TopMinistries) {
		res.Ministries = append(res.Ministries, MinistryTotal{
			Ministry:   t.key,
			Amount:     t.amount,
			Projects:   len(t.projects),
			Percentage: percentDec(t.amount, total),
		})
	}

	for _, t := range methods.byCount() {
		res.ContractTypes = append(res.ContractTypes, ContractTypeShare{
			Method:     t.key,
			Count:      t.count,
			Percentage: percentOf(t.count, contractRecords),
		})
	}

	for _, t := range vendors.top(opts.TopContractors) {
		res.TopContractors = append(res.TopContractors, ContractorTotal{
			Contractor: t.key,
			Amount:     t.amount,
			Count:      t.count,
		})
	}

	res.Transparency = Transparency{
		CompetitiveRatio:  competitiveness,
		AverageBidders:    ratio(bidderSum, biddingContracts),
		SingleBidderRatio: percentOf(singleBidder, biddingContracts),
		BiddingContracts:  biddingContracts,
	}
	// With neither contract methods nor bidder counts there is nothing to score.
	if contractRecords > 0 || biddingContracts > 0 {
		res.Transparency.Score = clamp(competitiveness*0.6 + (100-res.Transparency.SingleBidderRatio)*0.4)
	}

	return res
}

func highValue(records []core.ExpenditureRecord, limit int) []HighValueContract {
	sorted := make([]core.ExpenditureRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]HighValueContract, 0, len(sorted))
	for i, r := range sorted {
		out = append(out, HighValueContract{
			ID:           fmt.Sprintf("contract-%d-%s-%s", i, r.ContractName, r.RawAmount),
			ContractName: r.ContractName,
			Amount:       r.Amount,
			RawAmount:    r.RawAmount,
			Ministry:     r.Ministry,
		})
	}
	return out
}

func expenseAnalysis(expenses []core.ExpenseRecord, limit int) ExpenseAnalysis {
	types := newTallies()
	var grouped decimal.Decimal
	for _, e := range expenses {
		if e.ExpenseType == "" || !e.Amount.IsPositive() {
			continue
		}
		types.add(e.ExpenseType, e.Amount, core.ProjectKey{})
		grouped = grouped.Add(e.Amount)
	}

	analysis := ExpenseAnalysis{TotalRecords: len(expenses)}
	for _, t := range types.top(limit) {
		analysis.ByType = append(analysis.ByType, ExpenseTotal{
			ExpenseType: t.key,
			Amount:      t.amount,
			Percentage:  percentDec(t.amount, grouped),
		})
	}
	return analysis
}

func isCompetitive(method string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(method, m) {
			return true
		}
	}
	return false
}

// laterYear compares numerically when both sides are integers.
func laterYear(candidate, current string) bool {
	if current == "" {
		return true
	}
	c, err1 := strconv.Atoi(candidate)
	p, err2 := strconv.Atoi(current)
	if err1 == nil && err2 == nil {
		return c > p
	}
	return candidate > current
}
