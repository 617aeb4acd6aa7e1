// Package reporter renders scan results in several output formats.
package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/localmind/cleanslate/internal/scanner"
	"github.com/localmind/cleanslate/pkg/utils"
)

// Format represents the output format for reports
type Format string

const (
	FormatSummary Format = "summary"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatSummary:
		return FormatSummary, nil
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want summary, table, json, or yaml)", name)
	}
}

// Reporter generates reports from scan results
type Reporter struct {
	format Format
}

// New creates a reporter for the given format.
func New(format Format) *Reporter {
	return &Reporter{format: format}
}

// Generate renders the result in the reporter's format.
func (r *Reporter) Generate(result *scanner.ScanResult) (string, error) {
	switch r.format {
	case FormatJSON:
		return r.generateJSON(result)
	case FormatYAML:
		return r.generateYAML(result)
	case FormatTable:
		return r.generateTable(result), nil
	default:
		return r.generateSummary(result), nil
	}
}

// SaveToFile writes the rendered report to a file, creating parent
// directories as needed.
func (r *Reporter) SaveToFile(result *scanner.ScanResult, path string) error {
	out, err := r.Generate(result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *Reporter) generateJSON(result *scanner.ScanResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}

func (r *Reporter) generateYAML(result *scanner.ScanResult) (string, error) {
	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}

func (r *Reporter) generateSummary(result *scanner.ScanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Scan of %s\n", strings.Join(result.RootPaths, ", "))
	fmt.Fprintf(&b, "%d files, %s total, completed in %s\n",
		result.TotalFiles, utils.FormatBytes(result.TotalSize), result.Duration)
	if result.Incomplete {
		b.WriteString("NOTE: scan was cancelled; findings are partial\n")
	}
	b.WriteString("\n")

	section(&b, "DUPLICATE FILES")
	if len(result.DuplicateGroups) == 0 {
		b.WriteString("  none\n")
	}
	for _, g := range result.DuplicateGroups {
		fmt.Fprintf(&b, "  %s (%s wasted)\n", g.ID, utils.FormatBytes(g.WastedBytes))
		for _, p := range g.Paths {
			fmt.Fprintf(&b, "    %s\n", p)
		}
	}
	b.WriteString("\n")

	section(&b, "NEAR-DUPLICATE IMAGES")
	if len(result.SimilarityGroups) == 0 {
		b.WriteString("  none\n")
	}
	for _, g := range result.SimilarityGroups {
		fmt.Fprintf(&b, "  %s (seed %s)\n", g.ID, g.SeedPath)
		for _, p := range g.Paths {
			fmt.Fprintf(&b, "    %s\n", p)
		}
	}
	b.WriteString("\n")

	section(&b, "BLURRY IMAGES")
	if len(result.BlurryFiles) == 0 {
		b.WriteString("  none\n")
	}
	for _, f := range result.BlurryFiles {
		fmt.Fprintf(&b, "  %s (sharpness %.1f)\n", f.Path, f.Sharpness)
	}
	b.WriteString("\n")

	section(&b, "LARGE FILES")
	if len(result.LargeFiles) == 0 {
		b.WriteString("  none\n")
	}
	for _, f := range result.LargeFiles {
		fmt.Fprintf(&b, "  %s  %s\n", utils.FormatBytes(f.Size), f.Path)
	}
	b.WriteString("\n")

	section(&b, "OLD FILES")
	if len(result.OldFiles) == 0 {
		b.WriteString("  none\n")
	}
	for _, f := range result.OldFiles {
		fmt.Fprintf(&b, "  %s  unmodified for %d days\n", f.Path, f.AgeDays)
	}
	b.WriteString("\n")

	section(&b, "EMPTY FILES")
	if len(result.EmptyFiles) == 0 {
		b.WriteString("  none\n")
	}
	for _, p := range result.EmptyFiles {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	b.WriteString("\n")

	section(&b, "SUMMARY")
	fmt.Fprintf(&b, "  duplicate groups:    %d (%s reclaimable)\n",
		len(result.DuplicateGroups), utils.FormatBytes(result.WastedBytes()))
	fmt.Fprintf(&b, "  similarity groups:   %d\n", len(result.SimilarityGroups))
	fmt.Fprintf(&b, "  blurry images:       %d\n", len(result.BlurryFiles))
	fmt.Fprintf(&b, "  large files:         %d\n", len(result.LargeFiles))
	fmt.Fprintf(&b, "  old files:           %d\n", len(result.OldFiles))
	fmt.Fprintf(&b, "  empty files:         %d\n", len(result.EmptyFiles))
	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "  skipped entries:     %d\n", len(result.Errors))
	}

	return b.String()
}

func (r *Reporter) generateTable(result *scanner.ScanResult) string {
	var b strings.Builder

	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Finding", "Count", "Detail"})
	t.AppendRows([]table.Row{
		{"Duplicate groups", len(result.DuplicateGroups), utils.FormatBytes(result.WastedBytes()) + " reclaimable"},
		{"Similar image groups", len(result.SimilarityGroups), ""},
		{"Blurry images", len(result.BlurryFiles), ""},
		{"Large files", len(result.LargeFiles), ""},
		{"Old files", len(result.OldFiles), ""},
		{"Empty files", len(result.EmptyFiles), ""},
	})
	t.AppendFooter(table.Row{"Total files", result.TotalFiles, utils.FormatBytes(result.TotalSize)})
	t.Render()

	if len(result.DuplicateGroups) > 0 {
		b.WriteString("\n")
		dt := table.NewWriter()
		dt.SetOutputMirror(&b)
		dt.SetStyle(table.StyleLight)
		dt.AppendHeader(table.Row{"Group", "Files", "Wasted"})
		for _, g := range result.DuplicateGroups {
			dt.AppendRow(table.Row{g.ID, len(g.Paths), utils.FormatBytes(g.WastedBytes)})
		}
		dt.Render()
	}

	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
}
