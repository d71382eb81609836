package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/isosalus/opeq/internal/domain/catalog"
	"github.com/isosalus/opeq/internal/domain/model"
)

const ruleWidth = 72

// renderText writes the human-readable report. It consumes the report
// read-only; no scoring happens here.
func renderText(w io.Writer, meta catalog.Metadata, rep model.Report) {
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintln(w, rule)
	title := "ASSESSMENT REPORT"
	if meta.FrameworkName != "" {
		title = strings.ToUpper(meta.FrameworkName) + " ASSESSMENT REPORT"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Organization: %s\n", rep.Organization)
	fmt.Fprintf(w, "Date: %s\n", rep.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintln(w, rule)

	for _, cs := range rep.Assessment.Categories {
		fmt.Fprintf(w, "\n%s:\n", cs.Category)
		fmt.Fprintf(w, "   Score: %d/%d (%.1f%%)\n", cs.Points, cs.MaxPoints, cs.Percentage)
		fmt.Fprintf(w, "   %s\n", cs.Interpretation)
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "OVERALL SCORE: %.1f%%\n", rep.Assessment.Percentage)
	fmt.Fprintf(w, "INTERPRETATION: %s\n", rep.Assessment.Interpretation)
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "\nPRIORITY FOCUS AREA: %s\n", rep.PriorityCategory)
	if len(rep.Recommendations) == 0 {
		fmt.Fprintln(w, "No remediation actions required.")
		return
	}

	fmt.Fprintf(w, "\nRecommended Actions for %s:\n", rep.PriorityCategory)
	for _, rec := range rep.Recommendations {
		fmt.Fprintf(w, "  %d. %s (%s, %d/%d points)\n",
			rec.Rank, rec.Action, rec.QuestionID, rec.Points, rec.MaxPoints)
	}
}
