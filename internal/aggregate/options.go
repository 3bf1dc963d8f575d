package aggregate

// Options tunes list sizes and the competitive contract markers.
type Options struct {
	TopMinistries   int
	TopContractors  int
	TopExpenseTypes int
	HighValueLimit  int

	// CompetitiveMarkers are matched as substrings of the contract method.
	CompetitiveMarkers []string
}

// DefaultCompetitiveMarkers covers both the 契約 and 入札 spellings used by
// the published data.
var DefaultCompetitiveMarkers = []string{
	"一般競争契約",
	"指名競争契約",
	"一般競争入札",
	"指名競争入札",
}

func DefaultOptions() Options {
	return Options{
		TopMinistries:      5,
		TopContractors:     5,
		TopExpenseTypes:    5,
		HighValueLimit:     5,
		CompetitiveMarkers: DefaultCompetitiveMarkers,
	}
}

// withDefaults fills non-positive sizes and missing markers.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopMinistries <= 0 {
		o.TopMinistries = d.TopMinistries
	}
	if o.TopContractors <= 0 {
		o.TopContractors = d.TopContractors
	}
	if o.TopExpenseTypes <= 0 {
		o.TopExpenseTypes = d.TopExpenseTypes
	}
	if o.HighValueLimit <= 0 {
		o.HighValueLimit = d.HighValueLimit
	}
	if len(o.CompetitiveMarkers) == 0 {
		o.CompetitiveMarkers = d.CompetitiveMarkers
	}
	return o
}
