package style

import (
	"bytes"
	"encoding/xml"
	"math"
	"testing"

	"github.com/tsawler/deckjson/model"
)

const testTheme = `<?xml version="1.0"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Test">
  <a:themeElements>
    <a:clrScheme name="Test">
      <a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
      <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
      <a:dk2><a:srgbClr val="1F3864"/></a:dk2>
      <a:lt2><a:srgbClr val="E2EFD9"/></a:lt2>
      <a:accent1><a:srgbClr val="4472C4"/></a:accent1>
      <a:accent2><a:srgbClr val="ED7D31"/></a:accent2>
      <a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>
      <a:accent4><a:srgbClr val="FFC000"/></a:accent4>
      <a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>
      <a:accent6><a:srgbClr val="70AD47"/></a:accent6>
      <a:hlink><a:srgbClr val="0563C1"/></a:hlink>
      <a:folHlink><a:srgbClr val="954F72"/></a:folHlink>
    </a:clrScheme>
    <a:fontScheme name="Test">
      <a:majorFont><a:latin typeface="Calibri Light"/></a:majorFont>
      <a:minorFont><a:latin typeface="Calibri"/></a:minorFont>
    </a:fontScheme>
    <a:fmtScheme name="Test">
      <a:fillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:gradFill>
          <a:gsLst>
            <a:gs pos="100000"><a:schemeClr val="phClr"><a:shade val="50000"/></a:schemeClr></a:gs>
            <a:gs pos="0"><a:schemeClr val="phClr"><a:tint val="50000"/></a:schemeClr></a:gs>
          </a:gsLst>
          <a:lin ang="5400000" scaled="0"/>
        </a:gradFill>
      </a:fillStyleLst>
      <a:lnStyleLst>
        <a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="dash"/></a:ln>
      </a:lnStyleLst>
      <a:bgFillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
      </a:bgFillStyleLst>
    </a:fmtScheme>
  </a:themeElements>
</a:theme>`

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	var theme ThemeXML
	if err := xml.NewDecoder(bytes.NewReader([]byte(testTheme))).Decode(&theme); err != nil {
		t.Fatalf("Failed to parse test theme: %v", err)
	}
	return NewResolver(&theme)
}

func decodeColor(t *testing.T, snippet string) *ColorChoice {
	t.Helper()
	wrapped := `<w xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` + snippet + `</w>`
	var c ColorChoice
	if err := xml.Unmarshal([]byte(wrapped), &c); err != nil {
		t.Fatalf("Failed to parse color snippet: %v", err)
	}
	return &c
}

func TestColorLiteral(t *testing.T) {
	r := testResolver(t)
	hex, ok := r.Color(decodeColor(t, `<a:srgbClr val="FF0000"/>`))
	if !ok || hex != "#FF0000" {
		t.Errorf("got %q ok=%v, want #FF0000", hex, ok)
	}
}

func TestColorSchemeSlot(t *testing.T) {
	r := testResolver(t)
	hex, ok := r.Color(decodeColor(t, `<a:schemeClr val="accent1"/>`))
	if !ok || hex != "#4472C4" {
		t.Errorf("got %q ok=%v, want #4472C4", hex, ok)
	}

	// tx1 is remapped to dk1.
	hex, _ = r.Color(decodeColor(t, `<a:schemeClr val="tx1"/>`))
	if hex != "#000000" {
		t.Errorf("tx1: got %q, want #000000", hex)
	}
}

func TestColorTintShade(t *testing.T) {
	r := testResolver(t)
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		// 4472C4 at 50% tint: each channel c*0.5 + 127.5.
		{"tint", `<a:schemeClr val="accent1"><a:tint val="50000"/></a:schemeClr>`, "#A2B9E2"},
		// 4472C4 at 50% shade: each channel c*0.5.
		{"shade", `<a:schemeClr val="accent1"><a:shade val="50000"/></a:schemeClr>`, "#223962"},
		{"alpha", `<a:srgbClr val="00FF00"><a:alpha val="50000"/></a:srgbClr>`, "#00FF0080"},
		{"full tint is white", `<a:srgbClr val="123456"><a:tint val="0"/></a:srgbClr>`, "#FFFFFF"},
		{"no-op tint", `<a:srgbClr val="123456"><a:tint val="100000"/></a:srgbClr>`, "#123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hex, ok := r.Color(decodeColor(t, tt.snippet))
			if !ok || hex != tt.want {
				t.Errorf("got %q ok=%v, want %q", hex, ok, tt.want)
			}
		})
	}
}

func TestColorDeterministic(t *testing.T) {
	r := testResolver(t)
	snippet := `<a:schemeClr val="accent2"><a:tint val="40000"/></a:schemeClr>`
	first, _ := r.Color(decodeColor(t, snippet))
	for i := 0; i < 3; i++ {
		again, _ := r.Color(decodeColor(t, snippet))
		if again != first {
			t.Fatalf("resolution not deterministic: %q then %q", first, again)
		}
	}
	// Eviction must not change results.
	r.EvictCache()
	after, _ := r.Color(decodeColor(t, snippet))
	if after != first {
		t.Errorf("after eviction: %q, want %q", after, first)
	}
}

func TestResolveFillCascadeOrder(t *testing.T) {
	r := testResolver(t)

	direct := &FillProperties{Solid: &SolidFill{ColorChoice{Srgb: &SrgbColor{Val: "112233"}}}}
	inherited := &FillProperties{Solid: &SolidFill{ColorChoice{Srgb: &SrgbColor{Val: "445566"}}}}
	ref := &StyleRef{Idx: 1, ColorChoice: ColorChoice{Scheme: &SchemeColor{Val: "accent1"}}}

	// Direct wins over everything.
	got := r.ResolveFill(FillCascade{Direct: direct, Ref: ref, Inherited: []*FillProperties{inherited}})
	if got.Type != model.FillSolid || got.Color != "#112233" {
		t.Errorf("direct: got %+v", got)
	}

	// Style reference wins over inherited; phClr resolves to the ref color.
	got = r.ResolveFill(FillCascade{Ref: ref, Inherited: []*FillProperties{inherited}})
	if got.Type != model.FillSolid || got.Color != "#4472C4" {
		t.Errorf("ref: got %+v", got)
	}

	// Inherited wins over default.
	got = r.ResolveFill(FillCascade{Inherited: []*FillProperties{nil, inherited}})
	if got.Type != model.FillSolid || got.Color != "#445566" {
		t.Errorf("inherited: got %+v", got)
	}

	// Nothing set: none fill.
	got = r.ResolveFill(FillCascade{})
	if got.Type != model.FillNone {
		t.Errorf("default: got %+v", got)
	}
}

func TestResolveGradientStopsSorted(t *testing.T) {
	r := testResolver(t)
	// Theme fill style 2 declares its stops out of order (100% first).
	ref := &StyleRef{Idx: 2, ColorChoice: ColorChoice{Scheme: &SchemeColor{Val: "accent1"}}}
	got := r.ResolveFill(FillCascade{Ref: ref})
	if got.Type != model.FillGradient {
		t.Fatalf("expected gradient, got %+v", got)
	}
	if got.Angle != 90 {
		t.Errorf("angle: got %v, want 90", got.Angle)
	}
	if len(got.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(got.Stops))
	}
	if got.Stops[0].Pos != 0 || got.Stops[1].Pos != 100 {
		t.Errorf("stops not sorted ascending: %+v", got.Stops)
	}
}

func TestResolveBorder(t *testing.T) {
	r := testResolver(t)

	direct := &LineProperties{
		W:        25400,
		Solid:    &SolidFill{ColorChoice{Srgb: &SrgbColor{Val: "FF0000"}}},
		PrstDash: &StrVal{Val: "sysDot"},
	}
	b := r.ResolveBorder(BorderCascade{Direct: direct})
	if b == nil {
		t.Fatal("expected border")
	}
	if b.Width != 2 {
		t.Errorf("width: got %v pt, want 2", b.Width)
	}
	if b.Color != "#FF0000" {
		t.Errorf("color: got %q", b.Color)
	}
	if b.Dash != model.DashDotted || b.Dasharray != "1 1" {
		t.Errorf("dash: got %v %q", b.Dash, b.Dasharray)
	}

	// noFill suppresses the border outright.
	if got := r.ResolveBorder(BorderCascade{Direct: &LineProperties{NoFill: &Empty{}}}); got != nil {
		t.Errorf("noFill should yield nil border, got %+v", got)
	}

	// lnRef 2 is the theme's dashed 1pt line.
	ref := &StyleRef{Idx: 2, ColorChoice: ColorChoice{Scheme: &SchemeColor{Val: "accent2"}}}
	b = r.ResolveBorder(BorderCascade{Ref: ref})
	if b == nil {
		t.Fatal("expected border from lnRef")
	}
	if b.Width != 1 || b.Color != "#ED7D31" || b.Dash != model.DashDashed {
		t.Errorf("lnRef border: %+v", b)
	}
}

func TestResolveShadow(t *testing.T) {
	r := testResolver(t)

	effects := &EffectList{
		Outer: &ShadowEffect{
			BlurRad:     50800,              // 4pt
			Dist:        38100,              // 3pt
			Dir:         2700000,            // 45 degrees
			ColorChoice: ColorChoice{Srgb: &SrgbColor{Val: "000000", ColorMods: ColorMods{Alpha: &IntVal{Val: 40000}}}},
		},
	}
	s := r.ResolveShadow(effects)
	if s == nil {
		t.Fatal("expected shadow")
	}
	if s.Kind != model.ShadowOuter {
		t.Errorf("kind: got %v", s.Kind)
	}
	if s.Blur != 4 {
		t.Errorf("blur: got %v, want 4", s.Blur)
	}
	if s.Angle != 45 {
		t.Errorf("angle: got %v, want 45", s.Angle)
	}
	want := math.Round(3*math.Cos(math.Pi/4)*100) / 100
	if s.OffsetX != want || s.OffsetY != want {
		t.Errorf("offsets: got (%v, %v), want (%v, %v)", s.OffsetX, s.OffsetY, want, want)
	}
	if s.Color != "#00000066" {
		t.Errorf("color: got %q", s.Color)
	}

	if got := r.ResolveShadow(nil); got != nil {
		t.Errorf("nil effects: got %+v", got)
	}
	if got := r.ResolveShadow(&EffectList{}); got != nil {
		t.Errorf("empty effects: got %+v", got)
	}
}

func TestSchemeColorsSnapshot(t *testing.T) {
	r := testResolver(t)
	colors := r.SchemeColors()
	if colors["accent1"] != "#4472C4" {
		t.Errorf("accent1: got %q", colors["accent1"])
	}
	if colors["lt1"] != "#FFFFFF" {
		t.Errorf("lt1: got %q", colors["lt1"])
	}
	if r.MajorFont() != "Calibri Light" || r.MinorFont() != "Calibri" {
		t.Errorf("fonts: %q / %q", r.MajorFont(), r.MinorFont())
	}
}
