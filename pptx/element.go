package pptx

import (
	"github.com/tsawler/deckjson/chart"
	"github.com/tsawler/deckjson/model"
)

// ElementKind is the closed set of parsed element variants.
type ElementKind int

const (
	KindText ElementKind = iota
	KindImage
	KindShape
	KindLine
	KindTable
	KindChart
	KindGroup
)

func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindShape:
		return "shape"
	case KindLine:
		return "line"
	case KindTable:
		return "table"
	case KindChart:
		return "chart"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Transform is a source-unit placement: offsets and extents in EMU,
// rotation in 1/60000 degree units.
type Transform struct {
	X, Y   int64
	W, H   int64
	Rot    int64
	FlipH  bool
	FlipV  bool
}

// Element is one parsed slide element. Elements live in the slide's arena
// slice; Parent is the arena index of the containing group, -1 at top level.
type Element struct {
	Kind      ElementKind
	ID        string
	Name      string
	Transform Transform
	ZOrder    int
	Hidden    bool
	Parent    int

	Fill   model.Fill
	Border *model.Border
	Shadow *model.Shadow
	Shape  string // preset geometry name

	Text        *TextBody
	Image       *ImageRef
	Line        *LineInfo
	Table       *TableData
	Chart       *ChartInfo
	Group       *GroupInfo
	Unsupported *Unsupported
}

// TextBody is the parsed text content of a text element.
type TextBody struct {
	Paragraphs []Paragraph
}

// Paragraph is one paragraph with resolved run formatting.
type Paragraph struct {
	Runs     []Run
	Align    string
	Level    int
	Bullet   string
	Numbered bool
}

// Run is a contiguous formatted text span. SizePt is points; Color is a
// resolved hex string or empty when the run declares none.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	SizePt    float64
	Color     string
	Font      string
}

// Text returns the concatenated run text of all paragraphs.
func (t *TextBody) Text() string {
	if t == nil {
		return ""
	}
	var out string
	for i, p := range t.Paragraphs {
		if i > 0 {
			out += "\n"
		}
		for _, r := range p.Runs {
			out += r.Text
		}
	}
	return out
}

// ImageRef references embedded picture data by relationship id.
type ImageRef struct {
	RelID string
}

// LineInfo carries connector arrowheads.
type LineInfo struct {
	HeadArrow string
	TailArrow string
}

// ChartInfo holds the chart relationship and its extracted data. Data is
// nil when the chart sub-document was missing or unrecognized; converters
// substitute a placeholder.
type ChartInfo struct {
	RelID string
	Data  *chart.Data
}

// GroupInfo holds a group's child arena indices and its child coordinate
// space for flattening.
type GroupInfo struct {
	Children []int
	ChOffX   int64
	ChOffY   int64
	ScaleX   float64
	ScaleY   float64
}

// Unsupported marks a construct the target format cannot represent.
type Unsupported struct {
	Construct string // e.g. "smartart", "oleobject", "shape3d"
}

// Slide is one parsed slide with its element arena in document order.
type Slide struct {
	Index      int
	Path       string
	Elements   []Element
	Background model.Fill
	Transition *model.Transition
	Notes      string
}
