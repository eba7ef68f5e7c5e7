package engine

// Severity levels for analysis diagnostics.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic is a single analysis finding. Positions are zero-based.
type Diagnostic struct {
	File     string
	Start    Position
	End      Position
	Message  string
	Severity Severity
	Code     string
}

// Diagnostic codes emitted by reference checking.
const (
	CodeUnresolvedReference = "E001"
	CodeUnresolvedImport    = "E002"
	CodeDuplicateDefinition = "W001"
)
