package parser

import "fmt"

// Severity classifies a diagnostic emitted while parsing a spec.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
)

// String returns the conventional lowercase label for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	default:
		return "unknown"
	}
}

// Diagnostic is a single observation made while parsing. Diagnostics never
// influence parsing decisions; they only surface degradations and skips.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// Reporter receives diagnostics. A nil Reporter discards them, so components
// can always call it without checking.
type Reporter func(Diagnostic)

func (r Reporter) emit(sev Severity, format string, args ...any) {
	if r == nil {
		return
	}
	r(Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// Debugf emits a debug-level diagnostic.
func (r Reporter) Debugf(format string, args ...any) { r.emit(SeverityDebug, format, args...) }

// Infof emits an info-level diagnostic.
func (r Reporter) Infof(format string, args ...any) { r.emit(SeverityInfo, format, args...) }

// Warnf emits a warn-level diagnostic.
func (r Reporter) Warnf(format string, args ...any) { r.emit(SeverityWarn, format, args...) }

// Collector gathers diagnostics for inspection, mainly in tests.
type Collector struct {
	Diagnostics []Diagnostic
}

// Report returns a Reporter that appends to the collector.
func (c *Collector) Report() Reporter {
	return func(d Diagnostic) { c.Diagnostics = append(c.Diagnostics, d) }
}

// Count returns the number of collected diagnostics at the given severity.
func (c *Collector) Count(sev Severity) int {
	n := 0
	for _, d := range c.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
