package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/banachtech/optionmc/convergence"
	"github.com/banachtech/optionmc/pricer"

	"github.com/gocarina/gocsv"
)

// Comma separates CSV fields, as in the spreadsheets the reports are loaded into.
const Comma = ';'

// Decimal is a float written with four decimals.
type Decimal float64

func (d Decimal) MarshalCSV() (string, error) {
	if math.IsNaN(float64(d)) {
		return "NaN", nil
	}
	return strconv.FormatFloat(float64(d), 'f', 4, 64), nil
}

// Row is one line of the convergence CSV: one summary group.
type Row struct {
	Runs        int     `csv:"Runs"`
	Simulations int     `csv:"MC Simulations"`
	Steps       int     `csv:"Steps"`
	Sampling    string  `csv:"Sampling"`
	Interval    string  `csv:"Sample_interval"`
	PriceMean   Decimal `csv:"Price (Mean)"`
	Reference   Decimal `csv:"Real Price"`
	StdDev      Decimal `csv:"Error_Stddev"`
	Variance    Decimal `csv:"Error_Variance"`
}

// Rows flattens the report summaries. steps is the number of time steps of the
// model the report was produced with.
func Rows(rep *convergence.Report, steps int) []*Row {
	rows := make([]*Row, 0, len(rep.Summaries))
	for _, s := range rep.Summaries {
		rows = append(rows, &Row{
			Runs:        s.Runs,
			Simulations: s.Simulations,
			Steps:       steps,
			Sampling:    s.Mode.String(),
			Interval:    interval(s),
			PriceMean:   Decimal(s.PriceMean),
			Reference:   Decimal(s.Reference),
			StdDev:      Decimal(s.ErrorStdDev),
			Variance:    Decimal(s.ErrorVariance),
		})
	}
	return rows
}

func interval(s convergence.Summary) string {
	if s.Mode == pricer.Continuous {
		return "n/a"
	}
	return strconv.FormatFloat(s.Interval, 'f', 2, 64)
}

func writer(out io.Writer) *gocsv.SafeCSVWriter {
	w := csv.NewWriter(out)
	w.Comma = Comma
	return gocsv.NewSafeCSVWriter(w)
}

// WriteCSV writes the header followed by the rows.
func WriteCSV(out io.Writer, rows []*Row) error {
	if err := gocsv.MarshalCSV(&rows, writer(out)); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	return nil
}

// AppendFile appends rows to the CSV at path. A new file starts with the title, a
// blank line and the header, so repeated invocations for one contract accumulate
// in a single file.
func AppendFile(path, title string, rows []*Row) error {
	_, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("AppendFile: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("AppendFile: failed to open file: %w", err)
	}
	defer f.Close()

	if exists {
		err = gocsv.MarshalCSVWithoutHeaders(&rows, writer(f))
	} else {
		if _, err = fmt.Fprintf(f, "%s\n\n", title); err != nil {
			return fmt.Errorf("AppendFile: %w", err)
		}
		err = gocsv.MarshalCSV(&rows, writer(f))
	}
	if err != nil {
		return fmt.Errorf("AppendFile: failed to write to file: %w", err)
	}
	return nil
}
