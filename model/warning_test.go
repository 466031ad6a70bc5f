package model

import (
	"strings"
	"testing"
)

func TestWarningString(t *testing.T) {
	tests := []struct {
		name string
		w    Warning
		want string
	}{
		{
			name: "code and message",
			w:    Warning{Code: WarnSlideSkipped, Message: "slide 3 skipped"},
			want: "SLIDE_SKIPPED: slide 3 skipped",
		},
		{
			name: "with element id",
			w:    Warning{Code: WarnUnsupported, Message: "SmartArt replaced", ElementID: "7"},
			want: "UNSUPPORTED_CONSTRUCT: SmartArt replaced (element 7)",
		},
		{
			name: "with suggestion",
			w: Warning{
				Code:       WarnMediaUnresolved,
				Message:    "image relationship rId4 has no target",
				Suggestion: "check the slide relationship part",
			},
			want: "MEDIA_UNRESOLVED: image relationship rId4 has no target; suggestion: check the slide relationship part",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWarnf(t *testing.T) {
	w := Warnf(WarnMalformedElement, "skipping node %d in %s", 4, "slide2.xml")
	if w.Code != WarnMalformedElement {
		t.Errorf("Code = %q", w.Code)
	}
	if w.Message != "skipping node 4 in slide2.xml" {
		t.Errorf("Message = %q", w.Message)
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Code: WarnSlideSkipped, Message: "first"},
		{Code: WarnTableIrregular, Message: "second"},
	}
	got := FormatWarnings(warnings)
	if strings.Count(got, "\n") != 1 {
		t.Errorf("expected one separator in %q", got)
	}
	if !strings.HasPrefix(got, "SLIDE_SKIPPED: first") {
		t.Errorf("FormatWarnings = %q", got)
	}
}
