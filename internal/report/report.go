// Package report renders a human-readable summary of an analysis run as
// Markdown, optionally converted to a standalone HTML page.
package report

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"distsim/domain/similarity"
	"distsim/internal/analysis"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const pageTitle = "Distribution similarity report"

// Markdown renders the run summary, label distribution and one table row per test
func Markdown(t *analysis.ResultTable) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", pageTitle)
	fmt.Fprintf(&b, "- Run: `%s`\n", t.RunID.String())
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Created: %s\n", t.CreatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- Sensitivity: %.2f\n", t.Sensitivity)
	version := t.ModelVersion
	if version == "" {
		version = similarity.RuleBasedVersion
	}
	fmt.Fprintf(&b, "- Model: %s\n", version)

	ml, fallback, unavailable := t.Counts()
	fmt.Fprintf(&b, "- Tests: %d (model %d, rules %d, no data %d)\n\n", len(t.Rows), ml, fallback, unavailable)

	b.WriteString("## Labels\n\n| Label | Tests |\n|---|---:|\n")
	counts := make(map[similarity.Label]int)
	for _, r := range t.Rows {
		if res, ok := r.Classification(); ok {
			counts[res.Label]++
		}
	}
	for _, l := range similarity.Labels() {
		fmt.Fprintf(&b, "| %s | %d |\n", l, counts[l])
	}

	b.WriteString("\n## Tests\n\n")
	b.WriteString("| Test | Number | Module | Label | Confidence | Source | Cpk | Yield % |\n")
	b.WriteString("|---|---|---|---|---:|---|---:|---:|\n")
	for _, r := range t.Rows {
		label, confidence, source := "n/a", "", "no data"
		if res, ok := r.Classification(); ok {
			label = res.Label.String()
			confidence = fmt.Sprintf("%.3f", res.Confidence)
			source = res.ModelVersion
		}
		yield := ""
		if r.HasData() {
			yield = fmt.Sprintf("%.2f", r.Yield.Yield)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			escape(r.Test.Name), escape(r.Test.Number), r.Module, label, confidence, source, formatNum(r.Cpk), yield)
	}
	return b.Bytes()
}

// HTML converts the Markdown summary into a complete HTML page
func HTML(t *analysis.ResultTable) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: pageTitle,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(Markdown(t), p, renderer)
}

// Write stores the report, as HTML when path ends in .html or .htm and as
// Markdown otherwise
func Write(path string, t *analysis.ResultTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var out []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		out = HTML(t)
	default:
		out = Markdown(t)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}

func formatNum(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
