package style

import (
	"sort"

	"github.com/tsawler/deckjson/model"
)

// FillCascade carries the lookup layers for one fill resolution, in
// priority order: direct node, style reference, inherited values.
type FillCascade struct {
	Direct    *FillProperties
	Ref       *StyleRef
	Inherited []*FillProperties
}

// ResolveFill resolves a fill through the cascade. When no layer supplies a
// value the result is the none fill.
func (r *Resolver) ResolveFill(c FillCascade) model.Fill {
	if c.Direct.Present() {
		return r.convertFill(c.Direct, nil)
	}
	if fp, ph := r.refFill(c.Ref); fp != nil {
		return r.convertFill(fp, ph)
	}
	for _, inh := range c.Inherited {
		if inh.Present() {
			return r.convertFill(inh, nil)
		}
	}
	return model.NoFill()
}

// refFill dereferences a fillRef into the theme format scheme. Indexes above
// 1000 select background fill styles per the format's convention.
func (r *Resolver) refFill(ref *StyleRef) (*FillProperties, *ColorChoice) {
	if ref == nil || ref.Idx <= 0 {
		return nil, nil
	}
	var styles []FillProperties
	idx := ref.Idx
	if idx > 1000 {
		styles = r.bgStyles
		idx -= 1000
	} else {
		styles = r.fillStyles
	}
	if idx > len(styles) {
		return nil, nil
	}
	return &styles[idx-1], &ref.ColorChoice
}

// convertFill maps a fill node to the target descriptor, substituting ph for
// phClr scheme references inside theme-defined fills.
func (r *Resolver) convertFill(f *FillProperties, ph *ColorChoice) model.Fill {
	switch {
	case f == nil || f.NoFill != nil:
		return model.NoFill()

	case f.Solid != nil:
		hex, ok := r.colorWithPlaceholder(&f.Solid.ColorChoice, ph)
		if !ok {
			return model.NoFill()
		}
		return model.SolidFill(hex)

	case f.Grad != nil:
		out := model.Fill{Type: model.FillGradient}
		if f.Grad.Lin != nil {
			// Native angle units are 1/60000 degree.
			out.Angle = float64(f.Grad.Lin.Ang) / 60000
		}
		for _, gs := range f.Grad.Stops {
			hex, ok := r.colorWithPlaceholder(&gs.ColorChoice, ph)
			if !ok {
				continue
			}
			out.Stops = append(out.Stops, model.GradientStop{
				Pos:   float64(gs.Pos) / 1000,
				Color: hex,
			})
		}
		sort.SliceStable(out.Stops, func(i, j int) bool {
			return out.Stops[i].Pos < out.Stops[j].Pos
		})
		return out

	case f.Blip != nil:
		out := model.Fill{Type: model.FillImage}
		if f.Blip.Blip != nil {
			out.ImageRef = f.Blip.Blip.Embed
		}
		return out

	case f.Patt != nil:
		out := model.Fill{Type: model.FillPattern, Pattern: f.Patt.Prst}
		if f.Patt.Fg != nil {
			out.Foreground = r.ColorOr(&f.Patt.Fg.ColorChoice, "#000000")
		}
		if f.Patt.Bg != nil {
			out.Background = r.ColorOr(&f.Patt.Bg.ColorChoice, "#FFFFFF")
		}
		return out

	default:
		// grpFill resolves at group-flatten time; standalone it is none.
		return model.NoFill()
	}
}
