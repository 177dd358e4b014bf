package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/banachtech/optionmc/convergence"
	"github.com/banachtech/optionmc/pricer"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Bins is the number of histogram bins.
const Bins = 20

var ErrNoErrors = errors.New("no errors to bin")

// Bin is one histogram bar. Density integrates to one over all bins; Normal is the
// zero-mean normal density with the sample error variance at the bin centre.
type Bin struct {
	Lower   Decimal `csv:"Lower"`
	Upper   Decimal `csv:"Upper"`
	Count   int     `csv:"Count"`
	Density Decimal `csv:"Density"`
	Normal  Decimal `csv:"Normal"`
}

// Histogram bins the errors over a range symmetric around zero that is at least
// [-1, 1] and otherwise the largest absolute error rounded up to a tenth.
func Histogram(errs []float64, variance float64, bins int) ([]*Bin, error) {
	if len(errs) == 0 {
		return nil, ErrNoErrors
	}
	if bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}
	x := append([]float64(nil), errs...)
	sort.Float64s(x)
	if math.IsNaN(x[0]) || math.IsNaN(x[len(x)-1]) {
		return nil, fmt.Errorf("cannot bin NaN errors")
	}

	extreme := math.Max(math.Abs(x[0]), math.Abs(x[len(x)-1]))
	limit := math.Ceil(extreme*10) / 10
	if limit <= extreme {
		limit += 0.1
	}
	limit = math.Max(limit, 1)

	dividers := make([]float64, bins+1)
	floats.Span(dividers, -limit, limit)
	counts := stat.Histogram(nil, dividers, x, nil)

	var norm *distuv.Normal
	if variance > 0 {
		norm = &distuv.Normal{Mu: 0, Sigma: math.Sqrt(variance)}
	}

	out := make([]*Bin, bins)
	for i := range out {
		width := dividers[i+1] - dividers[i]
		b := &Bin{
			Lower:   Decimal(dividers[i]),
			Upper:   Decimal(dividers[i+1]),
			Count:   int(counts[i]),
			Density: Decimal(counts[i] / (float64(len(x)) * width)),
			Normal:  Decimal(math.NaN()),
		}
		if norm != nil {
			b.Normal = Decimal(norm.Prob((dividers[i] + dividers[i+1]) / 2))
		}
		out[i] = b
	}
	return out, nil
}

// WriteHistogram writes the error histogram of one summary group as CSV.
func WriteHistogram(out io.Writer, rep *convergence.Report, s convergence.Summary) error {
	bins, err := Histogram(rep.Errors(s), s.ErrorVariance, Bins)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalCSV(&bins, writer(out)); err != nil {
		return fmt.Errorf("WriteHistogram: %w", err)
	}
	return nil
}

// HistogramName is the file name of a group histogram, e.g. "CO-50-1000-disc-0.10.csv".
func HistogramName(prefix string, s convergence.Summary) string {
	name := fmt.Sprintf("%s-%d-%d-%s", prefix, s.Runs, s.Simulations, s.Mode)
	if s.Mode == pricer.Discrete {
		name += fmt.Sprintf("-%.2f", s.Interval)
	}
	return name + ".csv"
}
