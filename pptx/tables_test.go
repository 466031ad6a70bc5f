package pptx

import (
	"encoding/xml"
	"testing"

	"github.com/tsawler/deckjson/model"
	"github.com/tsawler/deckjson/style"
)

func parseTable(t *testing.T, doc string) *tblXML {
	t.Helper()
	var tbl tblXML
	if err := xml.Unmarshal([]byte(doc), &tbl); err != nil {
		t.Fatalf("Failed to parse table XML: %v", err)
	}
	return &tbl
}

func parseStyleCatalog(t *testing.T, doc string) *TableStyleCatalog {
	t.Helper()
	var lst tblStyleLstXML
	if err := xml.Unmarshal([]byte(doc), &lst); err != nil {
		t.Fatalf("Failed to parse table styles: %v", err)
	}
	cat := &TableStyleCatalog{def: lst.Def, styles: map[string]*tblStyleXML{}}
	for i := range lst.Styles {
		cat.styles[lst.Styles[i].StyleID] = &lst.Styles[i]
	}
	return cat
}

func emptyCatalog() *TableStyleCatalog {
	return &TableStyleCatalog{styles: map[string]*tblStyleXML{}}
}

func collectWarnings(ws *[]model.Warning) func(model.Warning) {
	return func(w model.Warning) { *ws = append(*ws, w) }
}

const mergedTableDoc = `<a:tbl xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:tblPr/>
  <a:tblGrid><a:gridCol w="1000"/><a:gridCol w="1000"/><a:gridCol w="1000"/></a:tblGrid>
  <a:tr h="370840">
    <a:tc rowSpan="2"><a:txBody><a:p><a:r><a:t>Origin</a:t></a:r></a:p></a:txBody></a:tc>
    <a:tc gridSpan="2"><a:txBody><a:p><a:r><a:t>Wide</a:t></a:r></a:p></a:txBody></a:tc>
    <a:tc hMerge="1"/>
  </a:tr>
  <a:tr h="370840">
    <a:tc vMerge="1"/>
    <a:tc><a:txBody><a:p><a:r><a:t>B</a:t></a:r></a:p></a:txBody></a:tc>
    <a:tc><a:txBody><a:p><a:r><a:t>C</a:t></a:r></a:p></a:txBody></a:tc>
  </a:tr>
</a:tbl>`

func TestExtractTableMergeNormalization(t *testing.T) {
	var warnings []model.Warning
	td := ExtractTable(parseTable(t, mergedTableDoc), emptyCatalog(),
		style.NewResolver(nil), collectWarnings(&warnings))

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(td.Rows) != 2 || len(td.Rows[0]) != 3 {
		t.Fatalf("grid is %dx%d, want 2x3", len(td.Rows), len(td.Rows[0]))
	}

	origin := td.Rows[0][0]
	if origin.RowSpan != 2 || origin.ColSpan != 1 {
		t.Errorf("origin spans = %dx%d, want 2x1", origin.RowSpan, origin.ColSpan)
	}
	if origin.Text != "Origin" {
		t.Errorf("origin text = %q", origin.Text)
	}
	wide := td.Rows[0][1]
	if wide.ColSpan != 2 {
		t.Errorf("wide ColSpan = %d, want 2", wide.ColSpan)
	}
	if !td.Rows[0][2].Covered {
		t.Error("expected (0,2) to be a covered continuation")
	}
	if !td.Rows[1][0].Covered {
		t.Error("expected (1,0) to be a covered continuation")
	}
	if td.Rows[1][1].Text != "B" || td.Rows[1][2].Text != "C" {
		t.Errorf("second row text = %q, %q", td.Rows[1][1].Text, td.Rows[1][2].Text)
	}
}

func TestExtractTableIrregularMergeWarns(t *testing.T) {
	// rowSpan 2 with no continuation cell below the origin.
	doc := `<a:tbl xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:tblPr/>
  <a:tblGrid><a:gridCol w="1000"/><a:gridCol w="1000"/></a:tblGrid>
  <a:tr><a:tc rowSpan="2"/><a:tc/></a:tr>
  <a:tr><a:tc/><a:tc/></a:tr>
</a:tbl>`

	var warnings []model.Warning
	ExtractTable(parseTable(t, doc), emptyCatalog(),
		style.NewResolver(nil), collectWarnings(&warnings))

	if len(warnings) != 1 || warnings[0].Code != model.WarnTableIrregular {
		t.Errorf("warnings = %v, want one TABLE_IRREGULAR", warnings)
	}
}

func TestExtractTableSpanClampedToGrid(t *testing.T) {
	doc := `<a:tbl xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:tblPr/>
  <a:tblGrid><a:gridCol w="1000"/><a:gridCol w="1000"/></a:tblGrid>
  <a:tr><a:tc gridSpan="5"/><a:tc hMerge="1"/></a:tr>
</a:tbl>`

	var warnings []model.Warning
	td := ExtractTable(parseTable(t, doc), emptyCatalog(),
		style.NewResolver(nil), collectWarnings(&warnings))

	if td.Rows[0][0].ColSpan != 2 {
		t.Errorf("ColSpan = %d, want clamped to 2", td.Rows[0][0].ColSpan)
	}
	if len(warnings) != 1 || warnings[0].Code != model.WarnTableIrregular {
		t.Errorf("warnings = %v, want one TABLE_IRREGULAR", warnings)
	}
}

const bandedStyleCatalogDoc = `<a:tblStyleLst xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" def="{GUID-1}">
  <a:tblStyle styleId="{GUID-1}" styleName="Banded">
    <a:wholeTbl>
      <a:tcTxStyle><a:srgbClr val="333333"/></a:tcTxStyle>
      <a:tcStyle><a:fill><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill></a:fill></a:tcStyle>
    </a:wholeTbl>
    <a:band1H>
      <a:tcStyle><a:fill><a:solidFill><a:srgbClr val="DDDDDD"/></a:solidFill></a:fill></a:tcStyle>
    </a:band1H>
    <a:firstRow>
      <a:tcTxStyle b="on"><a:srgbClr val="FFFFFF"/></a:tcTxStyle>
      <a:tcStyle><a:fill><a:solidFill><a:srgbClr val="4472C4"/></a:solidFill></a:fill></a:tcStyle>
    </a:firstRow>
  </a:tblStyle>
</a:tblStyleLst>`

const bandedTableDoc = `<a:tbl xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:tblPr firstRow="1" bandRow="1">
    <a:tableStyleId>{GUID-1}</a:tableStyleId>
  </a:tblPr>
  <a:tblGrid><a:gridCol w="1000"/><a:gridCol w="1000"/></a:tblGrid>
  <a:tr><a:tc><a:txBody><a:p><a:r><a:t>H1</a:t></a:r></a:p></a:txBody></a:tc><a:tc/></a:tr>
  <a:tr><a:tc/><a:tc/></a:tr>
  <a:tr><a:tc/><a:tc/></a:tr>
</a:tbl>`

func TestExtractTableFirstRowBeatsBanding(t *testing.T) {
	var warnings []model.Warning
	td := ExtractTable(parseTable(t, bandedTableDoc), parseStyleCatalog(t, bandedStyleCatalogDoc),
		style.NewResolver(nil), collectWarnings(&warnings))

	header := td.Rows[0][0]
	if header.Background != "#4472C4" {
		t.Errorf("header Background = %q, want the first-row fill", header.Background)
	}
	if !header.Bold {
		t.Error("expected bold header cell")
	}
	if header.Color != "#FFFFFF" {
		t.Errorf("header Color = %q, want #FFFFFF", header.Color)
	}

	// With the header styled, banding starts at the first data row.
	if got := td.Rows[1][0].Background; got != "#DDDDDD" {
		t.Errorf("row 1 Background = %q, want the band fill", got)
	}
	if got := td.Rows[2][0].Background; got != "#FFFFFF" {
		t.Errorf("row 2 Background = %q, want the whole-table fill", got)
	}
	if got := td.Rows[1][0].Color; got != "#333333" {
		t.Errorf("row 1 Color = %q, want the whole-table text color", got)
	}
}

func TestExtractTableDirectFillBeatsStyle(t *testing.T) {
	doc := `<a:tbl xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:tblPr firstRow="1"><a:tableStyleId>{GUID-1}</a:tableStyleId></a:tblPr>
  <a:tblGrid><a:gridCol w="1000"/></a:tblGrid>
  <a:tr><a:tc>
    <a:txBody><a:p><a:r><a:t>X</a:t></a:r></a:p></a:txBody>
    <a:tcPr><a:solidFill><a:srgbClr val="00FF00"/></a:solidFill></a:tcPr>
  </a:tc></a:tr>
</a:tbl>`

	var warnings []model.Warning
	td := ExtractTable(parseTable(t, doc), parseStyleCatalog(t, bandedStyleCatalogDoc),
		style.NewResolver(nil), collectWarnings(&warnings))

	if got := td.Rows[0][0].Background; got != "#00FF00" {
		t.Errorf("Background = %q, want the direct cell fill", got)
	}
}

func TestParseTableStylesMissingPart(t *testing.T) {
	pkg := buildPkg(t, ``, nil)
	cat := ParseTableStyles(pkg)
	if cat.Style("{ANY}") != nil {
		t.Error("expected nil style from empty catalog")
	}
}

func TestExtractTableFlagSpellings(t *testing.T) {
	doc := `<a:tbl xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:tblPr firstRow="true" bandRow="false">
    <a:tableStyleId>{GUID-1}</a:tableStyleId>
  </a:tblPr>
  <a:tblGrid><a:gridCol w="1000"/></a:tblGrid>
  <a:tr><a:tc><a:txBody><a:p><a:r><a:t>H1</a:t></a:r></a:p></a:txBody></a:tc></a:tr>
  <a:tr><a:tc/></a:tr>
  <a:tr><a:tc/></a:tr>
</a:tbl>`

	var warnings []model.Warning
	td := ExtractTable(parseTable(t, doc), parseStyleCatalog(t, bandedStyleCatalogDoc),
		style.NewResolver(nil), collectWarnings(&warnings))

	if got := td.Rows[0][0].Background; got != "#4472C4" {
		t.Errorf("header Background = %q, want the first-row fill", got)
	}
	if got := td.Rows[1][0].Background; got != "#FFFFFF" {
		t.Errorf("row 1 Background = %q, want the whole-table fill with banding off", got)
	}
}
