package style

import (
	"math"

	"github.com/tsawler/deckjson/model"
)

// ResolveShadow resolves an effect list to a shadow descriptor, or nil when
// the node carries no shadow. Outer shadows win when both are present.
func (r *Resolver) ResolveShadow(e *EffectList) *model.Shadow {
	if e == nil {
		return nil
	}
	switch {
	case e.Outer != nil:
		return r.convertShadow(e.Outer, model.ShadowOuter)
	case e.Inner != nil:
		return r.convertShadow(e.Inner, model.ShadowInner)
	default:
		return nil
	}
}

func (r *Resolver) convertShadow(s *ShadowEffect, kind model.ShadowKind) *model.Shadow {
	angle := float64(s.Dir) / 60000 // native units are 1/60000 degree
	dist := float64(s.Dist) / emuPerPoint
	rad := angle * math.Pi / 180

	return &model.Shadow{
		Kind:    kind,
		Color:   r.ColorOr(&s.ColorChoice, "#000000"),
		Blur:    float64(s.BlurRad) / emuPerPoint,
		Angle:   angle,
		OffsetX: round2(math.Cos(rad) * dist),
		OffsetY: round2(math.Sin(rad) * dist),
	}
}

// round2 rounds to two decimals so shadow offsets serialize stably.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
