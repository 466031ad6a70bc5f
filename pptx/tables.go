package pptx

import (
	"strings"

	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/model"
	"github.com/tsawler/deckjson/style"
)

const tableStylesPart = "ppt/tableStyles.xml"

// tblXML is a DrawingML table inside a graphic frame.
type tblXML struct {
	TblPr *tblPrXML  `xml:"tblPr"`
	Grid  tblGridXML `xml:"tblGrid"`
	Rows  []trXML    `xml:"tr"`
}

// tblPrXML carries the table style reference and the conditional
// formatting switches.
type tblPrXML struct {
	FirstRow     boolAttr `xml:"firstRow,attr"`
	LastRow      boolAttr `xml:"lastRow,attr"`
	FirstCol     boolAttr `xml:"firstCol,attr"`
	LastCol      boolAttr `xml:"lastCol,attr"`
	BandRow      boolAttr `xml:"bandRow,attr"`
	BandCol      boolAttr `xml:"bandCol,attr"`
	TableStyleID string   `xml:"tableStyleId"`
}

type tblGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

type gridColXML struct {
	W int64 `xml:"w,attr"`
}

type trXML struct {
	H     int64   `xml:"h,attr"`
	Cells []tcXML `xml:"tc"`
}

// tcXML is one table cell. Merge continuations appear as cells carrying
// hMerge or vMerge; spans live on the merge origin.
type tcXML struct {
	RowSpan  int        `xml:"rowSpan,attr"`
	GridSpan int        `xml:"gridSpan,attr"`
	HMerge   boolAttr   `xml:"hMerge,attr"`
	VMerge   boolAttr   `xml:"vMerge,attr"`
	TxBody   *txBodyXML `xml:"txBody"`
	TcPr     *tcPrXML   `xml:"tcPr"`
}

type tcPrXML struct {
	style.FillProperties
}

// tblStyleXML is one entry of the table style catalog. Each part styles a
// region of the table; absent parts fall through to lower-priority parts.
type tblStyleXML struct {
	StyleID  string           `xml:"styleId,attr"`
	WholeTbl *tblStylePartXML `xml:"wholeTbl"`
	Band1H   *tblStylePartXML `xml:"band1H"`
	Band2H   *tblStylePartXML `xml:"band2H"`
	Band1V   *tblStylePartXML `xml:"band1V"`
	Band2V   *tblStylePartXML `xml:"band2V"`
	FirstCol *tblStylePartXML `xml:"firstCol"`
	LastCol  *tblStylePartXML `xml:"lastCol"`
	FirstRow *tblStylePartXML `xml:"firstRow"`
	LastRow  *tblStylePartXML `xml:"lastRow"`
	NWCell   *tblStylePartXML `xml:"nwCell"`
	NECell   *tblStylePartXML `xml:"neCell"`
	SWCell   *tblStylePartXML `xml:"swCell"`
	SECell   *tblStylePartXML `xml:"seCell"`
}

type tblStylePartXML struct {
	TcTxStyle *tcTxStyleXML `xml:"tcTxStyle"`
	TcStyle   *tcStyleXML   `xml:"tcStyle"`
}

type tcTxStyleXML struct {
	B string `xml:"b,attr"` // "on" / "off"
	style.ColorChoice
}

type tcStyleXML struct {
	Fill *tcPrXML `xml:"fill"`
}

type tblStyleLstXML struct {
	Def    string        `xml:"def,attr"`
	Styles []tblStyleXML `xml:"tblStyle"`
}

// TableStyleCatalog indexes the package's table styles by id.
type TableStyleCatalog struct {
	def    string
	styles map[string]*tblStyleXML
}

// ParseTableStyles reads ppt/tableStyles.xml. A package without the part
// yields an empty catalog; tables then keep only their direct formatting.
func ParseTableStyles(pkg *container.Package) *TableStyleCatalog {
	cat := &TableStyleCatalog{styles: map[string]*tblStyleXML{}}
	var lst tblStyleLstXML
	if err := pkg.XML(tableStylesPart, &lst); err != nil {
		return cat
	}
	cat.def = lst.Def
	for i := range lst.Styles {
		cat.styles[lst.Styles[i].StyleID] = &lst.Styles[i]
	}
	return cat
}

// Style returns the style for id, falling back to the catalog default.
func (c *TableStyleCatalog) Style(id string) *tblStyleXML {
	if s, ok := c.styles[id]; ok {
		return s
	}
	if s, ok := c.styles[c.def]; ok {
		return s
	}
	return nil
}

// TableData is a normalized table grid. The grid is rectangular; merged
// regions keep their content on the origin cell and mark the remainder
// covered.
type TableData struct {
	Rows       [][]TableCell
	ColWidths  []int64 // EMU
	RowHeights []int64 // EMU
}

// TableCell is one normalized grid cell with its resolved formatting.
type TableCell struct {
	Text       string
	RowSpan    int
	ColSpan    int
	Covered    bool
	Bold       bool
	Color      string
	Background string
}

// ExtractTable normalizes a table into a rectangular grid and resolves
// per-cell formatting through the conditional style chain.
func ExtractTable(tbl *tblXML, cat *TableStyleCatalog, res *style.Resolver, warn func(model.Warning)) *TableData {
	nrows := len(tbl.Rows)
	ncols := len(tbl.Grid.Cols)
	for _, tr := range tbl.Rows {
		if len(tr.Cells) > ncols {
			ncols = len(tr.Cells)
		}
	}
	out := &TableData{}
	if nrows == 0 || ncols == 0 {
		return out
	}
	for _, gc := range tbl.Grid.Cols {
		out.ColWidths = append(out.ColWidths, gc.W)
	}
	for len(out.ColWidths) < ncols {
		out.ColWidths = append(out.ColWidths, 0)
	}

	pr := tbl.TblPr
	if pr == nil {
		pr = &tblPrXML{}
	}
	st := cat.Style(strings.TrimSpace(pr.TableStyleID))

	irregular := false
	out.Rows = make([][]TableCell, nrows)
	for r, tr := range tbl.Rows {
		out.RowHeights = append(out.RowHeights, tr.H)
		out.Rows[r] = make([]TableCell, ncols)
		if len(tr.Cells) != ncols {
			irregular = true
		}
		for c := 0; c < ncols; c++ {
			if c >= len(tr.Cells) {
				out.Rows[r][c] = TableCell{Covered: true}
				continue
			}
			tc := &tr.Cells[c]
			cell := TableCell{}
			if tc.HMerge || tc.VMerge {
				cell.Covered = true
			} else {
				cell.RowSpan = spanOrOne(tc.RowSpan)
				cell.ColSpan = spanOrOne(tc.GridSpan)
				if r+cell.RowSpan > nrows {
					cell.RowSpan = nrows - r
					irregular = true
				}
				if c+cell.ColSpan > ncols {
					cell.ColSpan = ncols - c
					irregular = true
				}
				cell.Text = cellText(tc.TxBody)
				applyCellStyle(&cell, tc, r, c, nrows, ncols, pr, st, res)
			}
			out.Rows[r][c] = cell
		}
	}

	if !irregular {
		irregular = !mergeRegionsConsistent(out.Rows)
	}
	if irregular {
		warn(model.Warnf(model.WarnTableIrregular,
			"table grid did not match its declared merges, normalized best effort"))
	}
	return out
}

func spanOrOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// mergeRegionsConsistent checks that every cell under a merge origin's
// span is a covered continuation cell.
func mergeRegionsConsistent(rows [][]TableCell) bool {
	for r := range rows {
		for c := range rows[r] {
			cell := &rows[r][c]
			if cell.Covered || (cell.RowSpan <= 1 && cell.ColSpan <= 1) {
				continue
			}
			for rr := r; rr < r+cell.RowSpan; rr++ {
				for cc := c; cc < c+cell.ColSpan; cc++ {
					if rr == r && cc == c {
						continue
					}
					if !rows[rr][cc].Covered {
						return false
					}
				}
			}
		}
	}
	return true
}

func cellText(tx *txBodyXML) string {
	if tx == nil {
		return ""
	}
	var sb strings.Builder
	for i := range tx.P {
		text := paragraphText(&tx.P[i])
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// condProps is the merged outcome of the conditional style chain: per
// property, the first non-empty value along the priority order wins.
type condProps struct {
	bold  *bool
	color *style.ColorChoice
	fill  *style.FillProperties
}

func (p *condProps) absorb(part *tblStylePartXML) {
	if part == nil {
		return
	}
	if ts := part.TcTxStyle; ts != nil {
		if p.bold == nil && ts.B != "" {
			b := ts.B == "on" || ts.B == "1"
			p.bold = &b
		}
		if p.color == nil && ts.ColorChoice.Present() {
			p.color = &ts.ColorChoice
		}
	}
	if part.TcStyle != nil && part.TcStyle.Fill != nil {
		if p.fill == nil && part.TcStyle.Fill.FillProperties.Present() {
			p.fill = &part.TcStyle.Fill.FillProperties
		}
	}
}

// applyCellStyle fills a cell's formatting from its own properties first,
// then from the conditional chain in priority order: corner parts, edge
// parts, band parts, whole table.
func applyCellStyle(cell *TableCell, tc *tcXML, r, c, nrows, ncols int, pr *tblPrXML, st *tblStyleXML, res *style.Resolver) {
	if tc.TxBody != nil {
		for _, p := range tc.TxBody.P {
			for _, run := range p.R {
				if run.RPr == nil {
					continue
				}
				if run.RPr.B != nil && bool(*run.RPr.B) {
					cell.Bold = true
				}
				if cell.Color == "" && run.RPr.Solid != nil {
					cell.Color = res.ColorOr(&run.RPr.Solid.ColorChoice, "")
				}
			}
		}
	}
	directBG := ""
	if tc.TcPr != nil && tc.TcPr.FillProperties.Present() {
		fill := res.ResolveFill(style.FillCascade{Direct: &tc.TcPr.FillProperties})
		directBG = fill.Color
	}

	var cp condProps
	if st != nil {
		firstRow := bool(pr.FirstRow) && r == 0
		lastRow := bool(pr.LastRow) && r == nrows-1
		firstCol := bool(pr.FirstCol) && c == 0
		lastCol := bool(pr.LastCol) && c == ncols-1

		switch {
		case firstRow && firstCol:
			cp.absorb(st.NWCell)
		case firstRow && lastCol:
			cp.absorb(st.NECell)
		case lastRow && firstCol:
			cp.absorb(st.SWCell)
		case lastRow && lastCol:
			cp.absorb(st.SECell)
		}
		if firstRow {
			cp.absorb(st.FirstRow)
		}
		if lastRow {
			cp.absorb(st.LastRow)
		}
		if firstCol {
			cp.absorb(st.FirstCol)
		}
		if lastCol {
			cp.absorb(st.LastCol)
		}
		if bool(pr.BandRow) && !firstRow && !lastRow {
			// Banding counts data rows, so a styled header row shifts the
			// band index.
			band := r
			if pr.FirstRow {
				band = r - 1
			}
			if band%2 == 0 {
				cp.absorb(st.Band1H)
			} else {
				cp.absorb(st.Band2H)
			}
		}
		if bool(pr.BandCol) && !firstCol && !lastCol {
			band := c
			if pr.FirstCol {
				band = c - 1
			}
			if band%2 == 0 {
				cp.absorb(st.Band1V)
			} else {
				cp.absorb(st.Band2V)
			}
		}
		cp.absorb(st.WholeTbl)
	}

	if !cell.Bold && cp.bold != nil {
		cell.Bold = *cp.bold
	}
	if cell.Color == "" && cp.color != nil {
		cell.Color = res.ColorOr(cp.color, "")
	}
	cell.Background = directBG
	if cell.Background == "" && cp.fill != nil {
		fill := res.ResolveFill(style.FillCascade{Direct: cp.fill})
		cell.Background = fill.Color
	}
}
