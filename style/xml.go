// Package style resolves DrawingML visual properties (colors, fills,
// borders, shadows) against a presentation theme, applying the cascading
// lookup order: direct value, style reference, inherited value, theme
// default.
package style

import "encoding/xml"

// Empty marks a presence-only XML element.
type Empty struct{}

// IntVal is an element carrying a single integer val attribute.
type IntVal struct {
	Val int64 `xml:"val,attr"`
}

// StrVal is an element carrying a single string val attribute.
type StrVal struct {
	Val string `xml:"val,attr"`
}

// ColorMods are the color modifiers the engine applies. Values are in
// thousandths of a percent (100000 = 100%).
type ColorMods struct {
	Tint   *IntVal `xml:"tint"`
	Shade  *IntVal `xml:"shade"`
	Alpha  *IntVal `xml:"alpha"`
	LumMod *IntVal `xml:"lumMod"`
	LumOff *IntVal `xml:"lumOff"`
}

// SrgbColor is a literal sRGB color node.
type SrgbColor struct {
	Val string `xml:"val,attr"` // RRGGBB
	ColorMods
}

// SchemeColor is a theme color-scheme slot reference.
type SchemeColor struct {
	Val string `xml:"val,attr"` // dk1, lt1, accent1..6, phClr, ...
	ColorMods
}

// SysColor is a system color with a last-rendered literal fallback.
type SysColor struct {
	Val     string `xml:"val,attr"`
	LastClr string `xml:"lastClr,attr"`
	ColorMods
}

// PresetColor is a named preset color.
type PresetColor struct {
	Val string `xml:"val,attr"`
	ColorMods
}

// ColorChoice holds whichever color node variant is present.
type ColorChoice struct {
	Srgb   *SrgbColor   `xml:"srgbClr"`
	Scheme *SchemeColor `xml:"schemeClr"`
	Sys    *SysColor    `xml:"sysClr"`
	Preset *PresetColor `xml:"prstClr"`
}

// Present reports whether any color variant is set.
func (c *ColorChoice) Present() bool {
	return c != nil && (c.Srgb != nil || c.Scheme != nil || c.Sys != nil || c.Preset != nil)
}

// SolidFill is a solid paint containing one color choice.
type SolidFill struct {
	ColorChoice
}

// LinearGradient carries the gradient angle in 1/60000 degree units.
type LinearGradient struct {
	Ang    int64 `xml:"ang,attr"`
	Scaled int   `xml:"scaled,attr"`
}

// GradientStop is one gradient stop; Pos is in thousandths of a percent.
type GradientStop struct {
	Pos int64 `xml:"pos,attr"`
	ColorChoice
}

// GradientFill is a gradient paint.
type GradientFill struct {
	Lin   *LinearGradient `xml:"lin"`
	Stops []GradientStop  `xml:"gsLst>gs"`
}

// Blip references embedded picture data by relationship id.
type Blip struct {
	Embed string `xml:"embed,attr"`
}

// BlipFill is a picture paint.
type BlipFill struct {
	Blip *Blip `xml:"blip"`
}

// PatternFill is a two-color preset pattern paint.
type PatternFill struct {
	Prst string     `xml:"prst,attr"`
	Fg   *SolidFill `xml:"fgClr"`
	Bg   *SolidFill `xml:"bgClr"`
}

// FillProperties holds whichever fill variant a node declares.
type FillProperties struct {
	NoFill *Empty        `xml:"noFill"`
	Solid  *SolidFill    `xml:"solidFill"`
	Grad   *GradientFill `xml:"gradFill"`
	Blip   *BlipFill     `xml:"blipFill"`
	Patt   *PatternFill  `xml:"pattFill"`
	Group  *Empty        `xml:"grpFill"`
}

// Present reports whether any fill variant is set.
func (f *FillProperties) Present() bool {
	return f != nil && (f.NoFill != nil || f.Solid != nil || f.Grad != nil ||
		f.Blip != nil || f.Patt != nil || f.Group != nil)
}

// LineEnd describes an arrowhead on a connector.
type LineEnd struct {
	Type string `xml:"type,attr"`
}

// LineProperties is an a:ln stroke definition. W is in EMU.
type LineProperties struct {
	W        int64         `xml:"w,attr"`
	Cap      string        `xml:"cap,attr"`
	NoFill   *Empty        `xml:"noFill"`
	Solid    *SolidFill    `xml:"solidFill"`
	Grad     *GradientFill `xml:"gradFill"`
	PrstDash *StrVal       `xml:"prstDash"`
	HeadEnd  *LineEnd      `xml:"headEnd"`
	TailEnd  *LineEnd      `xml:"tailEnd"`
}

// Present reports whether the node declares any stroke content.
func (l *LineProperties) Present() bool {
	return l != nil && (l.W != 0 || l.NoFill != nil || l.Solid != nil ||
		l.Grad != nil || l.PrstDash != nil)
}

// ShadowEffect is an outer or inner shadow node. Lengths are EMU, Dir is in
// 1/60000 degree units.
type ShadowEffect struct {
	BlurRad int64 `xml:"blurRad,attr"`
	Dist    int64 `xml:"dist,attr"`
	Dir     int64 `xml:"dir,attr"`
	ColorChoice
}

// EffectList holds the shadow effects the engine resolves.
type EffectList struct {
	Outer *ShadowEffect `xml:"outerShdw"`
	Inner *ShadowEffect `xml:"innerShdw"`
}

// StyleRef is a *Ref node pointing into a theme format-scheme slot, with a
// placeholder color substituted for phClr inside the referenced definition.
type StyleRef struct {
	Idx int `xml:"idx,attr"`
	ColorChoice
}

// ShapeStyle is the p:style block of a shape.
type ShapeStyle struct {
	LnRef     *StyleRef `xml:"lnRef"`
	FillRef   *StyleRef `xml:"fillRef"`
	EffectRef *StyleRef `xml:"effectRef"`
	FontRef   *StyleRef `xml:"fontRef"`
}

// schemeEntry is one named slot of a theme color scheme.
type schemeEntry struct {
	Srgb *SrgbColor `xml:"srgbClr"`
	Sys  *SysColor  `xml:"sysClr"`
}

// typeface carries a font face name.
type typeface struct {
	Typeface string `xml:"typeface,attr"`
}

// FillStyleList is a theme format-scheme fill list. The children are a
// choice of fill variants, so decoding walks tokens in order.
type FillStyleList struct {
	Fills []FillProperties
}

// UnmarshalXML decodes each child fill variant in document order.
func (l *FillStyleList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var fp FillProperties
			switch t.Name.Local {
			case "solidFill":
				var sf SolidFill
				if err := d.DecodeElement(&sf, &t); err != nil {
					return err
				}
				fp.Solid = &sf
			case "gradFill":
				var gf GradientFill
				if err := d.DecodeElement(&gf, &t); err != nil {
					return err
				}
				fp.Grad = &gf
			case "blipFill":
				var bf BlipFill
				if err := d.DecodeElement(&bf, &t); err != nil {
					return err
				}
				fp.Blip = &bf
			case "pattFill":
				var pf PatternFill
				if err := d.DecodeElement(&pf, &t); err != nil {
					return err
				}
				fp.Patt = &pf
			case "noFill":
				if err := d.Skip(); err != nil {
					return err
				}
				fp.NoFill = &Empty{}
			case "grpFill":
				if err := d.Skip(); err != nil {
					return err
				}
				fp.Group = &Empty{}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			l.Fills = append(l.Fills, fp)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// ThemeXML is the subset of a theme part the resolver consumes.
type ThemeXML struct {
	XMLName  xml.Name `xml:"theme"`
	Elements struct {
		ClrScheme struct {
			Dk1      schemeEntry `xml:"dk1"`
			Lt1      schemeEntry `xml:"lt1"`
			Dk2      schemeEntry `xml:"dk2"`
			Lt2      schemeEntry `xml:"lt2"`
			Accent1  schemeEntry `xml:"accent1"`
			Accent2  schemeEntry `xml:"accent2"`
			Accent3  schemeEntry `xml:"accent3"`
			Accent4  schemeEntry `xml:"accent4"`
			Accent5  schemeEntry `xml:"accent5"`
			Accent6  schemeEntry `xml:"accent6"`
			Hlink    schemeEntry `xml:"hlink"`
			FolHlink schemeEntry `xml:"folHlink"`
		} `xml:"clrScheme"`
		FontScheme struct {
			Major struct {
				Latin typeface `xml:"latin"`
			} `xml:"majorFont"`
			Minor struct {
				Latin typeface `xml:"latin"`
			} `xml:"minorFont"`
		} `xml:"fontScheme"`
		FmtScheme struct {
			FillStyles   FillStyleList    `xml:"fillStyleLst"`
			LineStyles   []LineProperties `xml:"lnStyleLst>ln"`
			BgFillStyles FillStyleList    `xml:"bgFillStyleLst"`
		} `xml:"fmtScheme"`
	} `xml:"themeElements"`
}

// ClrMap is the master's scheme-slot remapping (tx1 to dk1 and so on).
type ClrMap struct {
	Bg1 string `xml:"bg1,attr"`
	Tx1 string `xml:"tx1,attr"`
	Bg2 string `xml:"bg2,attr"`
	Tx2 string `xml:"tx2,attr"`
}
