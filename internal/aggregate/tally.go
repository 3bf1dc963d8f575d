package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"govis/internal/core"
)

type tally struct {
	key      string
	amount   decimal.Decimal
	count    int
	projects map[core.ProjectKey]struct{}
}

// tallies groups by key and remembers first-seen order so that ties sort
// deterministically.
type tallies struct {
	byKey map[string]*tally
	order []*tally
}

func newTallies() *tallies {
	return &tallies{byKey: make(map[string]*tally)}
}

func (t *tallies) add(key string, amount decimal.Decimal, project core.ProjectKey) {
	g, ok := t.byKey[key]
	if !ok {
		g = &tally{key: key, projects: make(map[core.ProjectKey]struct{})}
		t.byKey[key] = g
		t.order = append(t.order, g)
	}
	g.amount = g.amount.Add(amount)
	g.count++
	if !project.IsZero() {
		g.projects[project] = struct{}{}
	}
}

// top returns at most n groups by descending amount.
func (t *tallies) top(n int) []*tally {
	out := t.sorted(func(a, b *tally) bool { return a.amount.GreaterThan(b.amount) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// byCount returns every group by descending count.
func (t *tallies) byCount() []*tally {
	return t.sorted(func(a, b *tally) bool { return a.count > b.count })
}

func (t *tallies) sorted(less func(a, b *tally) bool) []*tally {
	out := make([]*tally, len(t.order))
	copy(out, t.order)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
