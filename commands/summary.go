package commands

import (
	"fmt"
	"strings"

	"github.com/alDuncanson/thoughtmap/report"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

// summaryWidth is the widest the summary table is allowed to get.
const summaryWidth = 80

// renderSummary lays out the cluster distribution of doc as a table that
// fits in width columns, largest cluster first.
func renderSummary(doc *report.Document, path string, width int) string {
	s := newStyles()
	shares := doc.Distribution()

	countWidth := ansi.StringWidth("count")
	for _, share := range shares {
		countWidth = max(countWidth, ansi.StringWidth(fmt.Sprint(share.Count)))
	}
	const percentWidth = 6 // "100.0%"
	labelWidth := ansi.StringWidth("cluster")
	for _, share := range shares {
		labelWidth = max(labelWidth, ansi.StringWidth(share.Label))
	}
	// Label gets what is left after the two numeric columns and the gaps.
	labelWidth = max(8, min(labelWidth, width-countWidth-percentWidth-4))

	var b strings.Builder
	b.WriteString(s.title.Render("thoughtmap"))
	b.WriteString(s.dim.Render(fmt.Sprintf(" %d samples in %d clusters", doc.Metadata.TotalMessages, doc.Metadata.NumClusters)))
	b.WriteString("\n\n")

	b.WriteString(s.header.Render(padRight("cluster", labelWidth)))
	b.WriteString("  ")
	b.WriteString(s.header.Render(padLeft("count", countWidth)))
	b.WriteString("  ")
	b.WriteString(s.header.Render(padLeft("share", percentWidth)))
	b.WriteString("\n")

	for _, share := range shares {
		label := truncate.StringWithTail(share.Label, uint(labelWidth), "…")
		b.WriteString(s.label.Render(padRight(label, labelWidth)))
		b.WriteString("  ")
		b.WriteString(padLeft(fmt.Sprint(share.Count), countWidth))
		b.WriteString("  ")
		b.WriteString(s.dim.Render(padLeft(fmt.Sprintf("%.1f%%", share.Percent), percentWidth)))
		b.WriteString("\n")
	}

	if path != "" {
		b.WriteString("\n")
		b.WriteString(s.done.Render("✓"))
		b.WriteString(" wrote ")
		b.WriteString(path)
		b.WriteString("\n")
	}
	return b.String()
}

func padRight(text string, width int) string {
	if gap := width - ansi.StringWidth(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func padLeft(text string, width int) string {
	if gap := width - ansi.StringWidth(text); gap > 0 {
		return strings.Repeat(" ", gap) + text
	}
	return text
}
