package model

// ElementType identifies the variant of an Element.
type ElementType string

// Element type tags used in the output document.
const (
	TypeText  ElementType = "text"
	TypeImage ElementType = "image"
	TypeShape ElementType = "shape"
	TypeLine  ElementType = "line"
	TypeTable ElementType = "table"
	TypeChart ElementType = "chart"
)

// Element is a single converted slide element. Type selects the variant;
// variant-specific fields are zero-valued and omitted for other types.
// All coordinates are pixels at 96 DPI, rotation is clockwise degrees.
type Element struct {
	ID      string      `json:"id"`
	Type    ElementType `json:"type"`
	Name    string      `json:"name,omitempty"`
	GroupID string      `json:"groupId,omitempty"`

	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rotate float64 `json:"rotate"`

	FlipH  bool `json:"flipH,omitempty"`
	FlipV  bool `json:"flipV,omitempty"`
	Hidden bool `json:"hidden,omitempty"`

	Fill   *Fill   `json:"fill,omitempty"`
	Border *Border `json:"border,omitempty"`
	Shadow *Shadow `json:"shadow,omitempty"`

	// Text
	Content    string  `json:"content,omitempty"`
	Paragraphs []Para  `json:"paragraphs,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`   // pixels
	FontWeight string  `json:"fontWeight,omitempty"` // "bold" or empty
	FontStyle  string  `json:"fontStyle,omitempty"`  // "italic" or empty
	Color      string  `json:"color,omitempty"`

	// Image
	Src string `json:"src,omitempty"` // key into Document.Media

	// Shape
	Shape string `json:"shape,omitempty"` // preset geometry name

	// Line
	Points [][2]float64 `json:"points,omitempty"` // start and end

	// Chart
	Data *ChartData `json:"data,omitempty"`

	// Table
	Rows [][]TableCell `json:"rows,omitempty"`
	Cols int           `json:"cols,omitempty"`
}

// Para is one paragraph of a text element.
type Para struct {
	Runs     []Run  `json:"runs"`
	Align    string `json:"align,omitempty"`
	Level    int    `json:"level,omitempty"`
	Bullet   string `json:"bullet,omitempty"`
	Numbered bool   `json:"numbered,omitempty"`
}

// Run is a contiguous span of uniformly formatted text.
type Run struct {
	Text      string  `json:"text"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Strike    bool    `json:"strike,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"` // pixels
	Font      string  `json:"font,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// ChartData holds extracted chart content.
type ChartData struct {
	ChartType string      `json:"chartType"`
	BarDir    string      `json:"barDir,omitempty"`
	Labels    []string    `json:"labels"`
	Series    []string    `json:"series"`
	Values    [][]float64 `json:"values"`
	Colors    []string    `json:"colors,omitempty"`
	HoleSize  float64     `json:"holeSize,omitempty"` // doughnut only, percent
}

// TableCell is one origin cell of a converted table. Cells absorbed by a
// merge never appear; the origin's RowSpan and ColSpan account for them.
type TableCell struct {
	Text       string `json:"text"`
	RowSpan    int    `json:"rowSpan,omitempty"` // set only when > 1
	ColSpan    int    `json:"colSpan,omitempty"` // set only when > 1
	Bold       bool   `json:"bold,omitempty"`
	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
}
