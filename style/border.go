package style

import "github.com/tsawler/deckjson/model"

// emuPerPoint is the number of EMUs in one typographic point.
const emuPerPoint = 12700

// defaultBorderWidthPt matches the format's hairline default (9525 EMU).
const defaultBorderWidthPt = 0.75

// dashEntry pairs the closed dash enum with a literal pixel pattern for
// renderers that need one.
type dashEntry struct {
	kind  model.DashKind
	array string
}

// dashTable maps prstDash values. Unknown values fall back to solid.
var dashTable = map[string]dashEntry{
	"solid":         {model.DashSolid, ""},
	"dash":          {model.DashDashed, "4 3"},
	"dashDot":       {model.DashDashDot, "4 3 1 3"},
	"dot":           {model.DashDotted, "1 3"},
	"lgDash":        {model.DashLongDash, "8 3"},
	"lgDashDot":     {model.DashDashDot, "8 3 1 3"},
	"lgDashDotDot":  {model.DashLongDotDot, "8 3 1 3 1 3"},
	"sysDash":       {model.DashSystem, "3 1"},
	"sysDashDot":    {model.DashSystem, "3 1 1 1"},
	"sysDashDotDot": {model.DashSystem, "3 1 1 1 1 1"},
	"sysDot":        {model.DashDotted, "1 1"},
}

// BorderCascade carries the lookup layers for one border resolution.
type BorderCascade struct {
	Direct    *LineProperties
	Ref       *StyleRef
	Inherited []*LineProperties
}

// ResolveBorder resolves a stroke through the cascade. A nil result means
// the element has no border; an explicit noFill at the winning layer also
// yields nil.
func (r *Resolver) ResolveBorder(c BorderCascade) *model.Border {
	if c.Direct.Present() {
		return r.convertLine(c.Direct, nil)
	}
	if ln, ph := r.refLine(c.Ref); ln != nil {
		return r.convertLine(ln, ph)
	}
	for _, inh := range c.Inherited {
		if inh.Present() {
			return r.convertLine(inh, nil)
		}
	}
	return nil
}

// refLine dereferences an lnRef into the theme line style list.
func (r *Resolver) refLine(ref *StyleRef) (*LineProperties, *ColorChoice) {
	if ref == nil || ref.Idx <= 0 || ref.Idx > len(r.lineStyles) {
		return nil, nil
	}
	return &r.lineStyles[ref.Idx-1], &ref.ColorChoice
}

func (r *Resolver) convertLine(ln *LineProperties, ph *ColorChoice) *model.Border {
	if ln == nil || ln.NoFill != nil {
		return nil
	}

	b := &model.Border{
		Width: defaultBorderWidthPt,
		Dash:  model.DashSolid,
		Color: "#000000",
	}
	if ln.W > 0 {
		b.Width = float64(ln.W) / emuPerPoint
	}
	if ln.Solid != nil {
		if hex, ok := r.colorWithPlaceholder(&ln.Solid.ColorChoice, ph); ok {
			b.Color = hex
		}
	} else if ln.Grad != nil && len(ln.Grad.Stops) > 0 {
		// Gradient strokes collapse to their first stop color.
		if hex, ok := r.colorWithPlaceholder(&ln.Grad.Stops[0].ColorChoice, ph); ok {
			b.Color = hex
		}
	}
	if ln.PrstDash != nil {
		if entry, ok := dashTable[ln.PrstDash.Val]; ok {
			b.Dash = entry.kind
			b.Dasharray = entry.array
		}
	}
	return b
}
