package report

import (
	"fmt"
	"io"

	"github.com/banachtech/optionmc/convergence"

	"github.com/olekukonko/tablewriter"
)

// Table renders the report summaries for the console.
func Table(out io.Writer, rep *convergence.Report) {
	fmt.Fprintf(out, "%s (reference %.4f)\n", rep.Name, rep.Reference)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"N", "Sampling", "Interval", "Runs", "Price", "Error mean", "Error sd", "Error var", "p05", "p95"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, s := range rep.Summaries {
		table.Append([]string{
			fmt.Sprintf("%d", s.Simulations),
			s.Mode.String(),
			interval(s),
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.4f", s.PriceMean),
			fmt.Sprintf("%.4f", s.ErrorMean),
			fmt.Sprintf("%.4f", s.ErrorStdDev),
			fmt.Sprintf("%.4f", s.ErrorVariance),
			fmt.Sprintf("%.4f", s.ErrorP05),
			fmt.Sprintf("%.4f", s.ErrorP95),
		})
	}
	table.Render()
}
