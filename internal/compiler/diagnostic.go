package compiler

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Error"
}

// Diagnostic locates a problem in the main source. Lines start at 1,
// columns at 0. The short diagnostic format carries no span, so LineEnd and
// ColumnEnd always repeat LineStart and ColumnStart.
type Diagnostic struct {
	Severity    Severity
	LineStart   int
	ColumnStart int
	LineEnd     int
	ColumnEnd   int
	Message     string
}

// CompilationError is returned when the source does not compile.
type CompilationError struct {
	Diagnostics []Diagnostic
}

func (e *CompilationError) Error() string {
	var b strings.Builder
	b.WriteString("Typst Compilation Failed. Diagnostics:\n")
	for _, d := range e.Diagnostics {
		fmt.Fprintf(&b, "\t- [%s] %s. Line: %d, Column: %d.\n", d.Severity, d.Message, d.LineStart, d.ColumnStart)
	}
	return b.String()
}

// HasErrors reports whether any diagnostic is an error rather than a warning.
func (e *CompilationError) HasErrors() bool {
	for _, d := range e.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// "<file>:<line>:<column>: <severity>: <message>"
var shortDiagnosticRe = regexp.MustCompile(`^(.*):(\d+):(\d+): (error|warning): (.*)$`)

// ParseDiagnostics reads diagnostics in the short format printed by
// "typst compile --diagnostic-format short". Other lines, hints included,
// are ignored. lineOffset is subtracted from every line number to account
// for text prepended to the source.
func ParseDiagnostics(output string, lineOffset int) []Diagnostic {
	var result []Diagnostic

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		m := shortDiagnosticRe.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if m == nil {
			continue
		}

		line, _ := strconv.Atoi(m[2])
		column, _ := strconv.Atoi(m[3])

		line -= lineOffset
		if line < 1 {
			line = 1
		}
		if column > 0 {
			column--
		}

		severity := SeverityError
		if m[4] == "warning" {
			severity = SeverityWarning
		}

		result = append(result, Diagnostic{
			Severity:    severity,
			LineStart:   line,
			ColumnStart: column,
			LineEnd:     line,
			ColumnEnd:   column,
			Message:     m[5],
		})
	}

	return result
}
