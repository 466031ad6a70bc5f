package model

import (
	"fmt"
	"strings"
)

// WarnCode is a stable machine-readable warning code. Codes are the contract
// with the surrounding API layer; messages are free-form.
type WarnCode string

// Warning codes emitted by the engine.
const (
	WarnSlideSkipped     WarnCode = "SLIDE_SKIPPED"
	WarnMalformedElement WarnCode = "MALFORMED_ELEMENT"
	WarnUnsupported      WarnCode = "UNSUPPORTED_CONSTRUCT"
	WarnUnknownChartType WarnCode = "UNKNOWN_CHART_TYPE"
	WarnMediaUnresolved  WarnCode = "MEDIA_UNRESOLVED"
	WarnTableIrregular   WarnCode = "TABLE_IRREGULAR"
	WarnFrameDropped     WarnCode = "FRAME_DROPPED"
	WarnMemoryPressure   WarnCode = "MEMORY_PRESSURE"
	WarnCachesEvicted    WarnCode = "CACHES_EVICTED"
	WarnExtrasSkipped    WarnCode = "EXTRAS_SKIPPED"
	WarnQualityReduced   WarnCode = "QUALITY_REDUCED"
	WarnConcurrencyHint  WarnCode = "CONCURRENCY_REDUCED"
)

// Warning is a non-fatal condition recorded during conversion.
type Warning struct {
	Code       WarnCode
	Message    string
	ElementID  string
	Suggestion string
}

// Warnf builds a warning with a formatted message.
func Warnf(code WarnCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// String renders the warning in the "CODE: message" form used in the
// output document's warnings array.
func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(string(w.Code))
	sb.WriteString(": ")
	sb.WriteString(w.Message)
	if w.ElementID != "" {
		fmt.Fprintf(&sb, " (element %s)", w.ElementID)
	}
	if w.Suggestion != "" {
		fmt.Fprintf(&sb, "; suggestion: %s", w.Suggestion)
	}
	return sb.String()
}

// FormatWarnings joins warnings into a single newline-separated string.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
