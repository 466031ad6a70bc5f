package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/model"
)

const (
	pNS = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	aNS = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	rNS = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

var pngPixel = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0D, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

// buildDeck assembles a package whose slide parts are the given raw XML
// documents, plus any extra parts.
func buildDeck(t *testing.T, slides []string, extra map[string]string) *container.Package {
	t.Helper()

	var slideIDs, slideRels strings.Builder
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`,
	}
	for i, slide := range slides {
		n := i + 1
		fmt.Fprintf(&slideIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n+1)
		fmt.Fprintf(&slideRels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, n+1, n)
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", n)] = slide
	}
	parts["ppt/presentation.xml"] = `<?xml version="1.0"?>
<p:presentation ` + pNS + ` ` + rNS + `>
  <p:sldIdLst>` + slideIDs.String() + `</p:sldIdLst>
  <p:sldSz cx="12192000" cy="6858000"/>
</p:presentation>`
	parts["ppt/_rels/presentation.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + slideRels.String() + `</Relationships>`
	for name, content := range extra {
		parts[name] = content
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}

	pkg, err := container.FromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	return pkg
}

func slideDoc(spTree string) string {
	return `<?xml version="1.0"?>
<p:sld ` + pNS + ` ` + aNS + ` ` + rNS + `>
  <p:cSld><p:spTree>` + spTree + `</p:spTree></p:cSld>
</p:sld>`
}

const boldRedTextShape = `
<p:sp>
  <p:nvSpPr><p:cNvPr id="2" name="Title"/><p:nvPr/></p:nvSpPr>
  <p:spPr>
    <a:xfrm><a:off x="914400" y="914400"/><a:ext cx="1828800" cy="914400"/></a:xfrm>
    <a:prstGeom prst="rect"/>
  </p:spPr>
  <p:txBody>
    <a:p><a:r>
      <a:rPr b="1" sz="2400"><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill></a:rPr>
      <a:t>Headline</a:t>
    </a:r></a:p>
  </p:txBody>
</p:sp>`

func TestRunSingleTextSlide(t *testing.T) {
	pkg := buildDeck(t, []string{slideDoc(boldRedTextShape)}, nil)
	doc, warnings, err := Run(context.Background(), pkg, Options{InlineMedia: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(doc.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(doc.Slides))
	}
	slide := doc.Slides[0]
	if slide.ID != "slide-1" {
		t.Errorf("slide ID = %q", slide.ID)
	}
	if len(slide.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(slide.Elements))
	}
	el := slide.Elements[0]
	if el.Type != model.TypeText {
		t.Fatalf("Type = %q, want text", el.Type)
	}
	if el.Content != "Headline" {
		t.Errorf("Content = %q", el.Content)
	}
	if el.FontWeight != "bold" {
		t.Errorf("FontWeight = %q, want bold", el.FontWeight)
	}
	if el.Color != "#FF0000" {
		t.Errorf("Color = %q, want #FF0000", el.Color)
	}
	if el.FontSize != 32 {
		t.Errorf("FontSize = %v px, want 32 (24pt)", el.FontSize)
	}
	if el.Left != 96 || el.Top != 96 {
		t.Errorf("position = (%v, %v), want (96, 96)", el.Left, el.Top)
	}
	if doc.Metadata.SlideCount != 1 || doc.Metadata.ElementCounts["text"] != 1 {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if doc.Metadata.RunID == "" || doc.Metadata.ConvertedAt == "" {
		t.Error("expected run id and timestamp in metadata")
	}
}

func TestRunSkipsBrokenSlide(t *testing.T) {
	pkg := buildDeck(t, []string{
		slideDoc(boldRedTextShape),
		`this is not xml <<<`,
	}, nil)

	doc, warnings, err := Run(context.Background(), pkg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(doc.Slides) != 1 {
		t.Fatalf("expected 1 surviving slide, got %d", len(doc.Slides))
	}
	// At least one warning per dropped slide.
	dropped := 2 - len(doc.Slides)
	if len(warnings) < dropped {
		t.Errorf("warnings = %d, want at least %d", len(warnings), dropped)
	}
	found := false
	for _, w := range warnings {
		if w.Code == model.WarnSlideSkipped {
			found = true
		}
	}
	if !found {
		t.Error("expected a SLIDE_SKIPPED warning")
	}
}

func TestRunSlideSelection(t *testing.T) {
	pkg := buildDeck(t, []string{
		slideDoc(boldRedTextShape),
		slideDoc(boldRedTextShape),
	}, nil)

	doc, _, err := Run(context.Background(), pkg, Options{Slides: []int{2}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(doc.Slides) != 1 {
		t.Fatalf("expected 1 selected slide, got %d", len(doc.Slides))
	}
	if doc.Slides[0].ID != "slide-2" {
		t.Errorf("slide ID = %q, want slide-2 (source numbering)", doc.Slides[0].ID)
	}
	if doc.Metadata.SourceSlides != 2 {
		t.Errorf("SourceSlides = %d, want 2", doc.Metadata.SourceSlides)
	}
}

func TestRunAllSlidesBroken(t *testing.T) {
	pkg := buildDeck(t, []string{`broken <`, `also broken <`}, nil)
	_, _, err := Run(context.Background(), pkg, Options{})
	var structural *container.StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("err = %v, want StructuralError", err)
	}
}

func TestRunGroupFlattening(t *testing.T) {
	pkg := buildDeck(t, []string{slideDoc(`
<p:grpSp>
  <p:nvGrpSpPr><p:cNvPr id="10" name="grp"/></p:nvGrpSpPr>
  <p:grpSpPr>
    <a:xfrm>
      <a:off x="914400" y="0"/><a:ext cx="1828800" cy="1828800"/>
      <a:chOff x="0" y="0"/><a:chExt cx="914400" cy="914400"/>
    </a:xfrm>
  </p:grpSpPr>
  <p:sp>
    <p:nvSpPr><p:cNvPr id="11" name="child"/><p:nvPr/></p:nvSpPr>
    <p:spPr>
      <a:xfrm><a:off x="457200" y="0"/><a:ext cx="457200" cy="457200"/></a:xfrm>
      <a:prstGeom prst="rect"/>
    </p:spPr>
  </p:sp>
</p:grpSp>`)}, nil)

	doc, _, err := Run(context.Background(), pkg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	slide := doc.Slides[0]
	if len(slide.Elements) != 1 {
		t.Fatalf("expected the group to flatten to 1 element, got %d", len(slide.Elements))
	}
	el := slide.Elements[0]
	if el.GroupID != "10" {
		t.Errorf("GroupID = %q, want 10", el.GroupID)
	}
	// Child at 457200 EMU inside a 2x-scaled group offset by 914400:
	// 914400 + 457200*2 = 1828800 EMU = 192 px; size 457200*2 EMU = 96 px.
	if el.Left != 192 {
		t.Errorf("Left = %v, want 192", el.Left)
	}
	if el.Width != 96 {
		t.Errorf("Width = %v, want 96", el.Width)
	}
}

func TestRunInlinesMedia(t *testing.T) {
	pic := `
<p:pic>
  <p:nvPicPr><p:cNvPr id="4" name="logo"/></p:nvPicPr>
  <p:blipFill><a:blip r:embed="rId10"/></p:blipFill>
  <p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="914400" cy="914400"/></a:xfrm></p:spPr>
</p:pic>`
	extra := map[string]string{
		"ppt/slides/_rels/slide1.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId10" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image1.png"/>
</Relationships>`,
		"ppt/media/image1.png": string(pngPixel),
	}

	pkg := buildDeck(t, []string{slideDoc(pic)}, extra)
	doc, _, err := Run(context.Background(), pkg, Options{InlineMedia: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	el := doc.Slides[0].Elements[0]
	if el.Type != model.TypeImage || el.Src != "image1.png" {
		t.Fatalf("element = %+v, want image with src image1.png", el)
	}
	media, ok := doc.Media["image1.png"]
	if !ok {
		t.Fatal("media table missing image1.png")
	}
	if media.MimeType != "image/png" || media.Width != 1 || media.Height != 1 {
		t.Errorf("media = %+v", media)
	}
	if media.Data == "" {
		t.Error("expected base64 payload with InlineMedia")
	}
	if doc.Metadata.MediaCount != 1 {
		t.Errorf("MediaCount = %d, want 1", doc.Metadata.MediaCount)
	}

	// Without inlining the reference survives but the payload is dropped.
	doc2, _, err := Run(context.Background(), pkg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if m := doc2.Media["image1.png"]; m.Data != "" || m.MimeType != "image/png" {
		t.Errorf("media without inlining = %+v", m)
	}
}

func TestRunUnresolvedMediaDropsElement(t *testing.T) {
	pic := `
<p:pic>
  <p:nvPicPr><p:cNvPr id="4" name="ghost"/></p:nvPicPr>
  <p:blipFill><a:blip r:embed="rId99"/></p:blipFill>
  <p:spPr/>
</p:pic>`
	pkg := buildDeck(t, []string{slideDoc(pic)}, nil)
	doc, warnings, err := Run(context.Background(), pkg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(doc.Slides[0].Elements) != 0 {
		t.Errorf("expected the image element dropped, got %v", doc.Slides[0].Elements)
	}
	found := false
	for _, w := range warnings {
		if w.Code == model.WarnMediaUnresolved {
			found = true
		}
	}
	if !found {
		t.Error("expected a MEDIA_UNRESOLVED warning")
	}
}

func TestRunOleObjectDowngraded(t *testing.T) {
	spTree := `
<p:graphicFrame>
  <p:nvGraphicFramePr><p:cNvPr id="6" name="embedded"/></p:nvGraphicFramePr>
  <p:xfrm><a:off x="0" y="0"/><a:ext cx="914400" cy="914400"/></p:xfrm>
  <a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/presentationml/2006/ole"/></a:graphic>
</p:graphicFrame>` + boldRedTextShape

	pkg := buildDeck(t, []string{slideDoc(spTree)}, nil)
	doc, warnings, err := Run(context.Background(), pkg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	slide := doc.Slides[0]
	if len(slide.Elements) != 1 || slide.Elements[0].Type != model.TypeText {
		t.Fatalf("elements = %+v, want only the text element", slide.Elements)
	}
	found := false
	for _, w := range warnings {
		if w.Code == model.WarnUnsupported {
			found = true
		}
	}
	if !found {
		t.Error("expected an UNSUPPORTED_CONSTRUCT warning")
	}
}

func TestRunCancellation(t *testing.T) {
	pkg := buildDeck(t, []string{slideDoc(boldRedTextShape)}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, pkg, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunCriticalMemoryAborts(t *testing.T) {
	pkg := buildDeck(t, []string{slideDoc(boldRedTextShape)}, nil)
	doc, _, err := Run(context.Background(), pkg, Options{
		Thresholds: Thresholds{SoftLimit: 100, WarnPct: 70, DegradePct: 85, CriticalPct: 95},
		Sampler:    func() uint64 { return 99 },
	})
	var exhausted *ResourceExhaustionError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want ResourceExhaustionError", err)
	}
	if doc != nil {
		t.Error("no partial document may accompany a critical abort")
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	pkg := buildDeck(t, []string{slideDoc(boldRedTextShape)}, nil)
	doc, _, err := Run(context.Background(), pkg, Options{Version: "1.0.0"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	first, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	parsed, err := Unmarshal(first)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	second, err := Marshal(parsed)
	if err != nil {
		t.Fatalf("second Marshal failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("serialization is not idempotent across a parse round trip")
	}
}
