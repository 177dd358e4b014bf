package convergence

import (
	"encoding/json"
	"math"

	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Record is the outcome of one pricing run.
type Record struct {
	Run         int         `json:"run"`
	Simulations int         `json:"simulations"`
	Mode        pricer.Mode `json:"mode"`
	Interval    float64     `json:"interval"`
	Price       float64     `json:"price"`
	Reference   float64     `json:"reference"`
	Error       float64     `json:"error"`
}

// Summary of the error distribution of one (simulations, mode, interval) group.
// Standard deviation and variance are sample estimates; they are NaN for a single run.
type Summary struct {
	Simulations   int         `json:"simulations"`
	Mode          pricer.Mode `json:"mode"`
	Interval      float64     `json:"interval"`
	Runs          int         `json:"runs"`
	PriceMean     float64     `json:"price_mean"`
	Reference     float64     `json:"reference"`
	ErrorMean     float64     `json:"error_mean"`
	ErrorStdDev   float64     `json:"error_stddev"`
	ErrorVariance float64     `json:"error_variance"`
	ErrorMedian   float64     `json:"error_median"`
	ErrorP05      float64     `json:"error_p05"`
	ErrorP95      float64     `json:"error_p95"`
}

type summaryJSON struct {
	Simulations   int         `json:"simulations"`
	Mode          pricer.Mode `json:"mode"`
	Interval      float64     `json:"interval"`
	Runs          int         `json:"runs"`
	PriceMean     *float64    `json:"price_mean"`
	Reference     *float64    `json:"reference"`
	ErrorMean     *float64    `json:"error_mean"`
	ErrorStdDev   *float64    `json:"error_stddev"`
	ErrorVariance *float64    `json:"error_variance"`
	ErrorMedian   *float64    `json:"error_median"`
	ErrorP05      *float64    `json:"error_p05"`
	ErrorP95      *float64    `json:"error_p95"`
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func orNaN(x *float64) float64 {
	if x == nil {
		return math.NaN()
	}
	return *x
}

// MarshalJSON writes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryJSON{
		Simulations:   s.Simulations,
		Mode:          s.Mode,
		Interval:      s.Interval,
		Runs:          s.Runs,
		PriceMean:     finite(s.PriceMean),
		Reference:     finite(s.Reference),
		ErrorMean:     finite(s.ErrorMean),
		ErrorStdDev:   finite(s.ErrorStdDev),
		ErrorVariance: finite(s.ErrorVariance),
		ErrorMedian:   finite(s.ErrorMedian),
		ErrorP05:      finite(s.ErrorP05),
		ErrorP95:      finite(s.ErrorP95),
	})
}

func (s *Summary) UnmarshalJSON(b []byte) error {
	var v summaryJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Summary{
		Simulations:   v.Simulations,
		Mode:          v.Mode,
		Interval:      v.Interval,
		Runs:          v.Runs,
		PriceMean:     orNaN(v.PriceMean),
		Reference:     orNaN(v.Reference),
		ErrorMean:     orNaN(v.ErrorMean),
		ErrorStdDev:   orNaN(v.ErrorStdDev),
		ErrorVariance: orNaN(v.ErrorVariance),
		ErrorMedian:   orNaN(v.ErrorMedian),
		ErrorP05:      orNaN(v.ErrorP05),
		ErrorP95:      orNaN(v.ErrorP95),
	}
	return nil
}

// Report is everything one harness invocation produced.
type Report struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Contract  payoff.Contract `json:"contract"`
	Reference float64         `json:"reference"`
	Records   []Record        `json:"records"`
	Summaries []Summary       `json:"summaries"`
}

// Errors returns the signed errors of the records in one group.
func (r *Report) Errors(s Summary) []float64 {
	var out []float64
	for _, rec := range r.Records {
		if rec.Simulations == s.Simulations && rec.Mode == s.Mode && rec.Interval == s.Interval {
			out = append(out, rec.Error)
		}
	}
	return out
}

type groupKey struct {
	n        int
	mode     pricer.Mode
	interval float64
}

// Group records in order of first appearance and summarise each group.
func summarise(records []Record) []Summary {
	var keys []groupKey
	groups := map[groupKey][]Record{}
	for _, r := range records {
		k := groupKey{r.Simulations, r.Mode, r.Interval}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	out := make([]Summary, 0, len(keys))
	for _, k := range keys {
		out = append(out, summary(groups[k]))
	}
	return out
}

func summary(records []Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	prices := make([]float64, len(records))
	errs := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.Price
		errs[i] = r.Error
	}

	s := Summary{
		Simulations: records[0].Simulations,
		Mode:        records[0].Mode,
		Interval:    records[0].Interval,
		Runs:        len(records),
		PriceMean:   stat.Mean(prices, nil),
		Reference:   records[0].Reference,
		ErrorStdDev: math.NaN(),
	}
	s.ErrorVariance = math.NaN()
	if len(errs) > 1 {
		s.ErrorMean, s.ErrorStdDev = stat.MeanStdDev(errs, nil)
		s.ErrorVariance = stat.Variance(errs, nil)
	} else {
		s.ErrorMean = errs[0]
	}

	data := stats.LoadRawData(errs)
	s.ErrorMedian, _ = data.Median()
	s.ErrorP05 = percentile(data, 5)
	s.ErrorP95 = percentile(data, 95)
	return s
}

func percentile(data stats.Float64Data, p float64) float64 {
	if len(data) == 1 {
		return data[0]
	}
	v, err := data.Percentile(p)
	if err != nil {
		return math.NaN()
	}
	return v
}
