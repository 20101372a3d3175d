package pipeline

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/wsd3/rivercall/internal/domain"
)

// statusOrder fixes the interval rows of the summary so repeated runs render
// identically.
var statusOrder = []domain.IntervalStatus{
	domain.StatusMatched,
	domain.StatusMismatchArrive,
	domain.StatusMismatchDepart,
	domain.StatusSWPEnterExit,
	domain.StatusOther,
}

// Summary renders the run result as a console table.
func Summary(res *Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Run %s", res.RunID)
	tw.AppendHeader(table.Row{"Stage", "Metric", "Value"})

	tw.AppendRow(table.Row{"Ingest", "Events read", res.EventsIngested})
	tw.AppendRow(table.Row{"", "Excluded vessels", res.EventsExcluded})
	tw.AppendRow(table.Row{"", "Rejected identifiers", res.EventsRejected})
	tw.AppendSeparator()

	tw.AppendRow(table.Row{"Align", "Intervals", res.Intervals})
	for _, status := range statusOrder {
		if n := res.IntervalsByStatus[status]; n > 0 {
			tw.AppendRow(table.Row{"", string(status), n})
		}
	}
	tw.AppendSeparator()

	tw.AppendRow(table.Row{"Enrich", "Dictionary entries", res.DictionaryEntries})
	if res.DictionaryDuplicates > 0 {
		tw.AppendRow(table.Row{"", "Duplicate zones ignored", res.DictionaryDuplicates})
	}
	tw.AppendRow(table.Row{"", "Dictionary hits", res.DictionaryHits})

	if res.OutputPath != "" {
		appendMatchRows(tw, res)
	}

	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Run", "Elapsed", res.Elapsed.Round(timePrecision(res))})
	if res.IntervalsPath != "" {
		tw.AppendRow(table.Row{"", "Interval export", res.IntervalsPath})
	}
	if res.OutputPath != "" {
		tw.AppendRow(table.Row{"", "Output", res.OutputPath})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func appendMatchRows(tw table.Writer, res *Result) {
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Match", "Manifest rows", res.ManifestRows})
	tw.AppendRow(table.Row{"", "Processed", res.Processed})
	tw.AppendRow(table.Row{"", "Matched", res.MatchStats.Matched})
	tw.AppendRow(table.Row{"", "Not matched", res.MatchStats.NotMatched})
	tw.AppendRow(table.Row{"", "Errors", res.MatchStats.Errors})
	tw.AppendRow(table.Row{"", "Via identifier", res.MatchStats.IMOMatches})
	tw.AppendRow(table.Row{"", "Via name", res.MatchStats.NameMatches})
	tw.AppendRow(table.Row{"", "Non-berth filtered", res.MatchStats.LookupFiltered})
	tw.AppendRow(table.Row{"", "Match rate", fmt.Sprintf("%.1f%%", res.MatchRate()*100)})
	if res.TimedOut {
		tw.AppendRow(table.Row{"", "Stopped", "time budget"})
	}
	if res.Cancelled {
		tw.AppendRow(table.Row{"", "Stopped", "cancelled"})
	}
}

func timePrecision(res *Result) time.Duration {
	if res.Elapsed >= time.Second {
		return 10 * time.Millisecond
	}
	return time.Microsecond
}
