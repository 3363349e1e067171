package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/internal/domain/query"
)

// Output helpers shared by the read commands. Everything goes to the
// command's writer so tests can capture it.

var numbers = message.NewPrinter(language.English) //nolint:gochecknoglobals // immutable printer

// formatCount renders n with thousands separators, e.g. 1,319.
func formatCount(n int) string {
	return numbers.Sprintf("%d", n)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%s %s", formatCount(n), word)
	}
	return fmt.Sprintf("%s %ss", formatCount(n), word)
}

// printSection prints a top-level section header, e.g. "=== Coding (3) ===".
func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSections renders one table per group.
func printSections(w io.Writer, sections []query.Section) {
	for _, s := range sections {
		printSection(w, fmt.Sprintf("%s (%d)", s.Group, len(s.Records)))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tTASKS\tSAMPLES\tTAGS")
		for _, r := range s.Records {
			title := r.Title
			if r.RequiresSandbox() {
				title += " [sandbox]"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				r.ID, title, len(r.Tasks), formatCount(r.TotalSamples()), strings.Join(r.Tags, ", "))
		}
		_ = tw.Flush()
	}
}

// printDetail renders one benchmark the way the detail view shows it.
func printDetail(w io.Writer, d model.Detail, withNotes bool) {
	fmt.Fprintf(w, "%s (%s)\n", d.Title, d.ID)

	labels := []string{d.Group}
	labels = append(labels, d.Tags...)
	if d.RequiresSandbox() {
		labels = append(labels, "sandbox")
	}
	fmt.Fprintf(w, "[%s]\n", strings.Join(labels, "] ["))

	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}

	fmt.Fprintln(w)
	if len(d.Contributors) > 0 {
		fmt.Fprintf(w, "Contributors: %s\n", strings.Join(d.Contributors, ", "))
	}
	fmt.Fprintf(w, "Samples:      %s across %s\n", formatCount(d.TotalSamples()), plural(len(d.Tasks), "task"))
	if d.Arxiv != nil && *d.Arxiv != "" {
		fmt.Fprintf(w, "Paper:        %s\n", *d.Arxiv)
	}

	if len(d.Tasks) > 0 {
		printSection(w, "Tasks")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSAMPLES\tHUMAN BASELINE")
		for _, t := range d.Tasks {
			baseline := "-"
			if score, ok := t.HumanBaselineScore(); ok {
				baseline = strconv.FormatFloat(score, 'f', -1, 64)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, formatCount(t.DatasetSamples), baseline)
		}
		_ = tw.Flush()
	}

	if d.RunCommand != "" {
		printSection(w, "Run Command")
		fmt.Fprintln(w, indent(d.RunCommand))
	}
	if d.PythonUsage != "" {
		printSection(w, "Python Usage")
		fmt.Fprintln(w, indent(d.PythonUsage))
	}

	if withNotes && d.Notes != nil {
		printSection(w, "README")
		fmt.Fprintln(w, strings.TrimRight(*d.Notes, "\n"))
	}
}

func indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
