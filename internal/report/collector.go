// Package report turns post-index analysis state into externally visible
// diagnostics and summaries. Coordinates are one-based at this boundary.
package report

import (
	"encoding/json"
	"sort"

	"github.com/sysmlkit/sysmlkit/internal/engine"
	"github.com/sysmlkit/sysmlkit/internal/workspace"
)

// Diagnostic is one analysis finding with one-based coordinates.
type Diagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	EndLine  int    `json:"end_line"`
	EndCol   int    `json:"end_col"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Code     string `json:"code,omitempty"`
}

// Result is the outcome of one analysis run.
type Result struct {
	FileCount    int          `json:"file_count"`
	SymbolCount  int          `json:"symbol_count"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	InfoCount    int          `json:"info_count"`
	HintCount    int          `json:"hint_count"`
	Diagnostics  []Diagnostic `json:"diagnostics"`
}

// Collect gathers diagnostics for every loaded file and produces the single
// globally ordered sequence: by file, then start line, then start column.
// Diagnostics sharing all three keys keep their original emission order.
func Collect(c *workspace.Coordinator) *Result {
	index := c.Index()
	var all []Diagnostic
	for _, path := range c.Files() {
		for _, d := range index.CheckFile(path) {
			all = append(all, fromEngine(d))
		}
	}
	SortDiagnostics(all)

	fileCount, symbolCount := c.Summary()
	result := &Result{
		FileCount:   fileCount,
		SymbolCount: symbolCount,
		Diagnostics: all,
	}
	for _, d := range all {
		switch d.Severity {
		case engine.SeverityError.String():
			result.ErrorCount++
		case engine.SeverityWarning.String():
			result.WarningCount++
		case engine.SeverityInfo.String():
			result.InfoCount++
		case engine.SeverityHint.String():
			result.HintCount++
		}
	}
	return result
}

// SortDiagnostics establishes the strict total output order: file, then
// start line, then start column. Diagnostics sharing all three keys keep
// their original emission order.
func SortDiagnostics(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].File != diagnostics[j].File {
			return diagnostics[i].File < diagnostics[j].File
		}
		if diagnostics[i].Line != diagnostics[j].Line {
			return diagnostics[i].Line < diagnostics[j].Line
		}
		return diagnostics[i].Col < diagnostics[j].Col
	})
}

func fromEngine(d engine.Diagnostic) Diagnostic {
	return Diagnostic{
		File:     d.File,
		Line:     d.Start.Line + 1,
		Col:      d.Start.Col + 1,
		EndLine:  d.End.Line + 1,
		EndCol:   d.End.Col + 1,
		Message:  d.Message,
		Severity: d.Severity.String(),
		Code:     d.Code,
	}
}

// JSON serializes the result for machine consumption.
func (r *Result) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
