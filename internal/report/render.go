package report

import "fmt"

// Render formats a diagnostic in compiler style:
// severity[CODE]: file:line:col: message
func Render(d Diagnostic) string {
	code := ""
	if d.Code != "" {
		code = fmt.Sprintf("[%s]", d.Code)
	}
	return fmt.Sprintf("%s%s: %s:%d:%d: %s", d.Severity, code, d.File, d.Line, d.Col, d.Message)
}

// Summary formats the end-of-run line.
func (r *Result) Summary() string {
	if r.ErrorCount == 0 {
		return fmt.Sprintf("✓ Analyzed %d files: %d symbols, %d warnings",
			r.FileCount, r.SymbolCount, r.WarningCount)
	}
	return fmt.Sprintf("✗ Analyzed %d files: %d errors, %d warnings",
		r.FileCount, r.ErrorCount, r.WarningCount)
}
