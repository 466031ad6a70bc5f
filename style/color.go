package style

import (
	"fmt"
	"math"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const colorCacheSize = 256

// Resolver resolves colors, fills, borders, and shadows against one theme.
// It is read-only after construction apart from its internal memoization
// cache, and is scoped to a single package.
type Resolver struct {
	scheme     map[string]string // slot -> RRGGBB
	slotAlias  map[string]string
	fillStyles []FillProperties
	bgStyles   []FillProperties
	lineStyles []LineProperties
	majorFont  string
	minorFont  string

	cache *lru.Cache[string, string]
}

// NewResolver builds a resolver from a parsed theme part. A nil theme yields
// a resolver with the built-in default scheme.
func NewResolver(theme *ThemeXML) *Resolver {
	cache, _ := lru.New[string, string](colorCacheSize)
	r := &Resolver{
		scheme: defaultScheme(),
		slotAlias: map[string]string{
			"tx1": "dk1", "bg1": "lt1",
			"tx2": "dk2", "bg2": "lt2",
		},
		cache: cache,
	}
	if theme == nil {
		return r
	}

	cs := theme.Elements.ClrScheme
	for slot, entry := range map[string]schemeEntry{
		"dk1": cs.Dk1, "lt1": cs.Lt1, "dk2": cs.Dk2, "lt2": cs.Lt2,
		"accent1": cs.Accent1, "accent2": cs.Accent2, "accent3": cs.Accent3,
		"accent4": cs.Accent4, "accent5": cs.Accent5, "accent6": cs.Accent6,
		"hlink": cs.Hlink, "folHlink": cs.FolHlink,
	} {
		if hex, ok := entry.hex(); ok {
			r.scheme[slot] = hex
		}
	}

	r.fillStyles = theme.Elements.FmtScheme.FillStyles.Fills
	r.bgStyles = theme.Elements.FmtScheme.BgFillStyles.Fills
	r.lineStyles = theme.Elements.FmtScheme.LineStyles
	r.majorFont = theme.Elements.FontScheme.Major.Latin.Typeface
	r.minorFont = theme.Elements.FontScheme.Minor.Latin.Typeface
	return r
}

// hex extracts the literal color of a scheme slot entry.
func (e schemeEntry) hex() (string, bool) {
	switch {
	case e.Srgb != nil:
		return normalizeHex(e.Srgb.Val), true
	case e.Sys != nil && e.Sys.LastClr != "":
		return normalizeHex(e.Sys.LastClr), true
	case e.Sys != nil:
		return sysColorDefault(e.Sys.Val), true
	}
	return "", false
}

// SetColorMap applies the master's scheme-slot remapping.
func (r *Resolver) SetColorMap(m *ClrMap) {
	if m == nil {
		return
	}
	alias := make(map[string]string, 4)
	if m.Tx1 != "" {
		alias["tx1"] = m.Tx1
	}
	if m.Bg1 != "" {
		alias["bg1"] = m.Bg1
	}
	if m.Tx2 != "" {
		alias["tx2"] = m.Tx2
	}
	if m.Bg2 != "" {
		alias["bg2"] = m.Bg2
	}
	for k, v := range alias {
		r.slotAlias[k] = v
	}
	r.cache.Purge()
}

// EvictCache drops all memoized resolutions. Called by the degradation
// controller; resolution stays correct, only slower.
func (r *Resolver) EvictCache() {
	r.cache.Purge()
}

// SchemeColor returns the resolved hex for a named scheme slot.
func (r *Resolver) SchemeColor(slot string) (string, bool) {
	if mapped, ok := r.slotAlias[slot]; ok {
		slot = mapped
	}
	hex, ok := r.scheme[slot]
	return "#" + hex, ok
}

// MajorFont returns the theme's major (heading) font face.
func (r *Resolver) MajorFont() string { return r.majorFont }

// MinorFont returns the theme's minor (body) font face.
func (r *Resolver) MinorFont() string { return r.minorFont }

// SchemeColors returns a copy of the resolved scheme table with # prefixes.
func (r *Resolver) SchemeColors() map[string]string {
	out := make(map[string]string, len(r.scheme))
	for slot, hex := range r.scheme {
		out[slot] = "#" + hex
	}
	return out
}

// Color resolves a color choice node to "#RRGGBB" or "#RRGGBBAA".
func (r *Resolver) Color(c *ColorChoice) (string, bool) {
	return r.colorWithPlaceholder(c, nil)
}

// ColorOr resolves a color choice, substituting def when absent.
func (r *Resolver) ColorOr(c *ColorChoice, def string) string {
	if hex, ok := r.Color(c); ok {
		return hex
	}
	return def
}

// colorWithPlaceholder resolves a color choice; scheme references to the
// phClr slot resolve through ph (the style reference's color).
func (r *Resolver) colorWithPlaceholder(c *ColorChoice, ph *ColorChoice) (string, bool) {
	if !c.Present() {
		return "", false
	}

	key := colorKey(c, ph)
	if hex, ok := r.cache.Get(key); ok {
		return hex, true
	}

	var base string
	var mods ColorMods
	switch {
	case c.Srgb != nil:
		base = normalizeHex(c.Srgb.Val)
		mods = c.Srgb.ColorMods
	case c.Scheme != nil:
		mods = c.Scheme.ColorMods
		if c.Scheme.Val == "phClr" && ph != nil {
			resolved, ok := r.colorWithPlaceholder(ph, nil)
			if !ok {
				return "", false
			}
			base = strings.TrimPrefix(resolved, "#")[:6]
		} else {
			slot := c.Scheme.Val
			if mapped, ok := r.slotAlias[slot]; ok {
				slot = mapped
			}
			hex, ok := r.scheme[slot]
			if !ok {
				hex = "000000"
			}
			base = hex
		}
	case c.Sys != nil:
		mods = c.Sys.ColorMods
		if c.Sys.LastClr != "" {
			base = normalizeHex(c.Sys.LastClr)
		} else {
			base = sysColorDefault(c.Sys.Val)
		}
	case c.Preset != nil:
		base = presetColor(c.Preset.Val)
		mods = c.Preset.ColorMods
	}

	hex := "#" + applyMods(base, mods)
	r.cache.Add(key, hex)
	return hex, true
}

// applyMods applies tint/shade/luminance/alpha modifiers to an RRGGBB base.
func applyMods(base string, mods ColorMods) string {
	rc, gc, bc := splitHex(base)

	if mods.Tint != nil {
		f := factor(mods.Tint.Val)
		rc, gc, bc = tint(rc, f), tint(gc, f), tint(bc, f)
	}
	if mods.Shade != nil {
		f := factor(mods.Shade.Val)
		rc, gc, bc = shade(rc, f), shade(gc, f), shade(bc, f)
	}
	if mods.LumMod != nil {
		f := factor(mods.LumMod.Val)
		rc, gc, bc = shade(rc, f), shade(gc, f), shade(bc, f)
	}
	if mods.LumOff != nil {
		off := 255 * factor(mods.LumOff.Val)
		rc, gc, bc = add(rc, off), add(gc, off), add(bc, off)
	}

	out := fmt.Sprintf("%02X%02X%02X", rc, gc, bc)
	if mods.Alpha != nil {
		a := int(math.Round(255 * factor(mods.Alpha.Val)))
		out += fmt.Sprintf("%02X", clamp255(a))
	}
	return out
}

// factor converts thousandths-of-a-percent units to a 0..1 fraction.
func factor(v int64) float64 {
	return float64(v) / 100000
}

// tint scales a channel toward white: c*f + 255*(1-f).
func tint(c int, f float64) int {
	return clamp255(int(math.Round(float64(c)*f + 255*(1-f))))
}

// shade scales a channel toward black: c*f.
func shade(c int, f float64) int {
	return clamp255(int(math.Round(float64(c) * f)))
}

func add(c int, off float64) int {
	return clamp255(int(math.Round(float64(c) + off)))
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func splitHex(hex string) (r, g, b int) {
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}

// normalizeHex upcases and pads a hex literal to RRGGBB.
func normalizeHex(v string) string {
	v = strings.ToUpper(strings.TrimPrefix(v, "#"))
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) > 6 {
		v = v[:6]
	}
	for len(v) < 6 {
		v = "0" + v
	}
	return v
}

func sysColorDefault(name string) string {
	switch name {
	case "window", "3dLight", "btnFace", "btnHighlight":
		return "FFFFFF"
	default:
		return "000000"
	}
}

var presetColors = map[string]string{
	"black":    "000000",
	"white":    "FFFFFF",
	"red":      "FF0000",
	"green":    "008000",
	"lime":     "00FF00",
	"blue":     "0000FF",
	"yellow":   "FFFF00",
	"cyan":     "00FFFF",
	"magenta":  "FF00FF",
	"gray":     "808080",
	"grey":     "808080",
	"dkGray":   "A9A9A9",
	"ltGray":   "D3D3D3",
	"orange":   "FFA500",
	"purple":   "800080",
	"silver":   "C0C0C0",
	"maroon":   "800000",
	"navy":     "000080",
	"olive":    "808000",
	"teal":     "008080",
	"brown":    "A52A2A",
	"pink":     "FFC0CB",
	"gold":     "FFD700",
	"violet":   "EE82EE",
	"indigo":   "4B0082",
	"khaki":    "F0E68C",
	"crimson":  "DC143C",
	"lavender": "E6E6FA",
}

func presetColor(name string) string {
	if hex, ok := presetColors[name]; ok {
		return hex
	}
	return "000000"
}

// defaultScheme is the standard Office theme, used when a package carries no
// theme part.
func defaultScheme() map[string]string {
	return map[string]string{
		"dk1":      "000000",
		"lt1":      "FFFFFF",
		"dk2":      "44546A",
		"lt2":      "E7E6E6",
		"accent1":  "4472C4",
		"accent2":  "ED7D31",
		"accent3":  "A5A5A5",
		"accent4":  "FFC000",
		"accent5":  "5B9BD5",
		"accent6":  "70AD47",
		"hlink":    "0563C1",
		"folHlink": "954F72",
	}
}

// colorKey builds a deterministic memoization key for a color node.
func colorKey(c, ph *ColorChoice) string {
	var sb strings.Builder
	writeChoice := func(c *ColorChoice) {
		switch {
		case c == nil:
			sb.WriteString("nil")
		case c.Srgb != nil:
			sb.WriteString("s:" + c.Srgb.Val)
			writeMods(&sb, c.Srgb.ColorMods)
		case c.Scheme != nil:
			sb.WriteString("c:" + c.Scheme.Val)
			writeMods(&sb, c.Scheme.ColorMods)
		case c.Sys != nil:
			sb.WriteString("y:" + c.Sys.Val + ":" + c.Sys.LastClr)
			writeMods(&sb, c.Sys.ColorMods)
		case c.Preset != nil:
			sb.WriteString("p:" + c.Preset.Val)
			writeMods(&sb, c.Preset.ColorMods)
		default:
			sb.WriteString("empty")
		}
	}
	writeChoice(c)
	sb.WriteByte('|')
	writeChoice(ph)
	return sb.String()
}

func writeMods(sb *strings.Builder, m ColorMods) {
	for _, v := range []*IntVal{m.Tint, m.Shade, m.Alpha, m.LumMod, m.LumOff} {
		if v != nil {
			fmt.Fprintf(sb, ",%d", v.Val)
		} else {
			sb.WriteString(",_")
		}
	}
}
