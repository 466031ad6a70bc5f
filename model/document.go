package model

// Document represents a complete converted presentation.
type Document struct {
	Slides   []*Slide         `json:"slides"`
	Theme    Theme            `json:"theme"`
	Media    map[string]Media `json:"media"`
	Metadata Metadata         `json:"metadata"`
	Warnings []string         `json:"warnings"`
}

// NewDocument creates a new empty document.
func NewDocument() *Document {
	return &Document{
		Slides:   make([]*Slide, 0),
		Media:    make(map[string]Media),
		Warnings: make([]string, 0),
	}
}

// AddSlide appends a slide to the document.
func (d *Document) AddSlide(s *Slide) {
	d.Slides = append(d.Slides, s)
}

// SlideCount returns the number of slides in the document.
func (d *Document) SlideCount() int {
	return len(d.Slides)
}

// ElementCount returns the total number of elements across all slides.
func (d *Document) ElementCount() int {
	var n int
	for _, s := range d.Slides {
		n += len(s.Elements)
	}
	return n
}

// Theme holds the resolved presentation theme.
type Theme struct {
	// Colors maps scheme slot names (dk1, lt1, accent1..accent6, hlink,
	// folHlink) to resolved hex colors.
	Colors map[string]string `json:"colors"`
	Fonts  ThemeFonts        `json:"fonts"`
}

// ThemeFonts holds the major and minor font faces of the theme.
type ThemeFonts struct {
	Major string `json:"major,omitempty"`
	Minor string `json:"minor,omitempty"`
}

// Media is an embedded media blob.
type Media struct {
	// Data is the base64-encoded blob. Empty when media inlining was
	// disabled or dropped under memory pressure; MimeType and dimensions
	// remain populated so consumers can still lay out a placeholder.
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Metadata describes a single conversion run.
type Metadata struct {
	SourceFormat string `json:"sourceFormat"`
	ConvertedAt  string `json:"convertedAt"` // RFC 3339, UTC
	Version      string `json:"version"`
	RunID        string `json:"runId"`

	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`

	SlideCount    int            `json:"slideCount"`
	SourceSlides  int            `json:"sourceSlides"`
	ElementCounts map[string]int `json:"elementCounts"`
	MediaCount    int            `json:"mediaCount"`
	DurationMS    int64          `json:"durationMs"`

	HasMacros bool `json:"hasMacros"`
	Encrypted bool `json:"encrypted"`
}

// Slide is one converted slide.
type Slide struct {
	ID         string      `json:"id"`
	Elements   []Element   `json:"elements"`
	Background Fill        `json:"background"`
	Transition *Transition `json:"transition,omitempty"`
	Notes      string      `json:"notes,omitempty"`
}

// Transition describes a slide transition effect.
type Transition struct {
	Kind       string `json:"kind"`
	DurationMS int    `json:"durationMs,omitempty"`
}
