package convert

import (
	"fmt"

	"github.com/tsawler/deckjson/model"
	"github.com/tsawler/deckjson/pptx"
)

// Strategy selects how an unsupported construct is downgraded.
type Strategy int

const (
	// StrategyIgnore drops the element, leaving only a warning.
	StrategyIgnore Strategy = iota
	// StrategyPlaceholder replaces the element with a neutral labeled box.
	StrategyPlaceholder
	// StrategyToImage substitutes a placeholder image element.
	StrategyToImage
	// StrategyTextAnnotation keeps the element but relabels its content.
	StrategyTextAnnotation
	// StrategyWarnOnly keeps the element unchanged.
	StrategyWarnOnly
)

func (s Strategy) String() string {
	switch s {
	case StrategyIgnore:
		return "ignore"
	case StrategyPlaceholder:
		return "placeholder"
	case StrategyToImage:
		return "toImage"
	case StrategyTextAnnotation:
		return "textAnnotation"
	case StrategyWarnOnly:
		return "warnOnly"
	default:
		return "unknown"
	}
}

// DowngradePolicy maps a construct kind to its downgrade strategy.
// Constructs not in the map use StrategyWarnOnly.
type DowngradePolicy map[string]Strategy

// DefaultPolicy returns the built-in construct handling.
func DefaultPolicy() DowngradePolicy {
	return DowngradePolicy{
		"smartart":  StrategyPlaceholder,
		"model3d":   StrategyPlaceholder,
		"shape3d":   StrategyWarnOnly,
		"oleobject": StrategyIgnore,
		"activex":   StrategyIgnore,
		"ink":       StrategyToImage,
	}
}

var constructLabels = map[string]string{
	"smartart":  "SmartArt diagram",
	"model3d":   "3D model",
	"shape3d":   "3D shape effects",
	"oleobject": "embedded OLE object",
	"activex":   "ActiveX control",
	"ink":       "ink annotation",
}

func constructLabel(kind string) string {
	if label, ok := constructLabels[kind]; ok {
		return label
	}
	return kind
}

// Downgrade applies the policy's strategy for an unsupported element.
// converted is the element's normal conversion result (may be nil). The
// return follows the converter contract: (nil, false) drops the element.
// Exactly one warning is emitted per downgrade; no strategy ever fails.
func Downgrade(el *pptx.Element, converted *model.Element, policy DowngradePolicy, ctx *Context) (*model.Element, bool) {
	kind := el.Unsupported.Construct
	strategy, ok := policy[kind]
	if !ok {
		strategy = StrategyWarnOnly
	}
	label := constructLabel(kind)

	ctx.Warn(model.Warning{
		Code:       model.WarnUnsupported,
		Message:    fmt.Sprintf("%s cannot be converted, applied %s strategy", label, strategy),
		ElementID:  el.ID,
		Suggestion: downgradeSuggestion(kind, strategy),
	})

	switch strategy {
	case StrategyIgnore:
		return nil, false
	case StrategyPlaceholder:
		out := placeElement(el)
		out.Type = model.TypeText
		out.Shape = "rect"
		out.Fill = &model.Fill{Type: model.FillSolid, Color: "#F2F2F2"}
		out.Border = &model.Border{Color: "#BFBFBF", Width: 1, Dash: model.DashDashed}
		out.Content = fmt.Sprintf("[%s]", label)
		out.Color = "#7F7F7F"
		return &out, true
	case StrategyToImage:
		out := placeElement(el)
		out.Type = model.TypeImage
		return &out, true
	case StrategyTextAnnotation:
		out := converted
		if out == nil {
			base := placeElement(el)
			base.Type = model.TypeText
			out = &base
		}
		out.Content = fmt.Sprintf("[%s] %s", label, out.Content)
		return out, true
	default: // StrategyWarnOnly
		if converted != nil {
			return converted, true
		}
		out := placeElement(el)
		out.Type = model.TypeShape
		out.Shape = "rect"
		return &out, true
	}
}

func downgradeSuggestion(kind string, strategy Strategy) string {
	switch strategy {
	case StrategyIgnore:
		return "remove the " + constructLabel(kind) + " or replace it with a picture before converting"
	case StrategyPlaceholder, StrategyToImage:
		return "export the " + constructLabel(kind) + " as a picture for a faithful rendition"
	default:
		return "the element was kept but may not render as authored"
	}
}
