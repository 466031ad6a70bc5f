package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/net/html/charset"

	"github.com/tsawler/deckjson/style"
)

// Data is the extracted plot content of one chart.
type Data struct {
	Type     string
	BarDir   string
	Labels   []string
	Series   []string
	Values   [][]float64
	Colors   []string
	HoleSize float64 // doughnut only, percent
}

// Extract reads a chart sub-document and pulls out its series data. The
// second return is false when the plot area holds no recognized chart
// container; callers substitute a placeholder in that case.
func Extract(data []byte, res *style.Resolver) (*Data, bool) {
	var cs chartSpaceXML
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&cs); err != nil {
		return nil, false
	}

	pa := &cs.Chart.PlotArea
	switch {
	case pa.Bar != nil:
		d := extractCategory("bar", pa.Bar.Ser, res)
		d.BarDir = barDir(pa.Bar)
		return d, true
	case pa.Bar3D != nil:
		d := extractCategory("bar3D", pa.Bar3D.Ser, res)
		d.BarDir = barDir(pa.Bar3D)
		return d, true
	case pa.Line != nil:
		return extractCategory("line", pa.Line.Ser, res), true
	case pa.Line3D != nil:
		return extractCategory("line3D", pa.Line3D.Ser, res), true
	case pa.Pie != nil:
		return extractCategory("pie", pa.Pie.Ser, res), true
	case pa.Pie3D != nil:
		return extractCategory("pie3D", pa.Pie3D.Ser, res), true
	case pa.Doughnut != nil:
		d := extractCategory("doughnut", pa.Doughnut.Ser, res)
		if pa.Doughnut.HoleSize != nil {
			d.HoleSize = float64(pa.Doughnut.HoleSize.Val)
		}
		return d, true
	case pa.Area != nil:
		return extractCategory("area", pa.Area.Ser, res), true
	case pa.Area3D != nil:
		return extractCategory("area3D", pa.Area3D.Ser, res), true
	case pa.Scatter != nil:
		return extractScatter("scatter", pa.Scatter.Ser, res), true
	case pa.Bubble != nil:
		return extractScatter("bubble", pa.Bubble.Ser, res), true
	case pa.Radar != nil:
		return extractCategory("radar", pa.Radar.Ser, res), true
	case pa.Surface != nil:
		return extractCategory("surface", pa.Surface.Ser, res), true
	case pa.Surface3D != nil:
		return extractCategory("surface3D", pa.Surface3D.Ser, res), true
	case pa.Stock != nil:
		return extractCategory("stock", pa.Stock.Ser, res), true
	default:
		return nil, false
	}
}

func barDir(b *barChartXML) string {
	if b.BarDir != nil && b.BarDir.Val != "" {
		return b.BarDir.Val
	}
	return "col"
}

// extractCategory handles all category-axis chart kinds: labels come from
// the first series' category cache, values from each series' value cache,
// both placed by explicit point index.
func extractCategory(kind string, sers []serXML, res *style.Resolver) *Data {
	d := &Data{Type: kind}
	sortSeries(sers)

	width := 0
	for i := range sers {
		if n := numPointWidth(sers[i].Val); n > width {
			width = n
		}
	}
	if len(sers) > 0 {
		if labels, n := categoryLabels(sers[0].Cat); n > 0 {
			if n > width {
				width = n
			}
			d.Labels = labels
		}
	}
	d.Labels = padLabels(d.Labels, width)

	for i := range sers {
		ser := &sers[i]
		d.Series = append(d.Series, seriesName(ser, i))
		d.Colors = append(d.Colors, seriesColor(ser, i, res))
		row := make([]float64, width)
		fillNumPoints(row, ser.Val)
		d.Values = append(d.Values, row)
	}
	return d
}

// extractScatter zips each series' x and y sequences by point index. The
// shared x sequence becomes the label axis; each row holds the y value at
// the matching index.
func extractScatter(kind string, sers []serXML, res *style.Resolver) *Data {
	d := &Data{Type: kind}
	sortSeries(sers)

	width := 0
	for i := range sers {
		if n := axPointWidth(sers[i].XVal); n > width {
			width = n
		}
		if n := numPointWidth(sers[i].YVal); n > width {
			width = n
		}
	}
	if len(sers) > 0 {
		if labels, _ := categoryLabels(sers[0].XVal); labels != nil {
			d.Labels = labels
		}
	}
	d.Labels = padLabels(d.Labels, width)

	for i := range sers {
		ser := &sers[i]
		d.Series = append(d.Series, seriesName(ser, i))
		d.Colors = append(d.Colors, seriesColor(ser, i, res))
		row := make([]float64, width)
		fillNumPoints(row, ser.YVal)
		d.Values = append(d.Values, row)
	}
	return d
}

// sortSeries orders series by their declared order, then index, so plot
// order survives XML reordering.
func sortSeries(sers []serXML) {
	sort.SliceStable(sers, func(i, j int) bool {
		return seriesRank(&sers[i]) < seriesRank(&sers[j])
	})
}

func seriesRank(s *serXML) int64 {
	if s.Order != nil {
		return s.Order.Val
	}
	if s.Idx != nil {
		return s.Idx.Val
	}
	return 0
}

func seriesName(s *serXML, pos int) string {
	if s.Tx != nil {
		if s.Tx.StrRef != nil && s.Tx.StrRef.Cache != nil {
			for _, pt := range s.Tx.StrRef.Cache.Pts {
				if pt.V != "" {
					return pt.V
				}
			}
		}
		if s.Tx.V != "" {
			return s.Tx.V
		}
	}
	return fmt.Sprintf("Series %d", pos+1)
}

// seriesColor takes the series' explicit fill when present, otherwise
// cycles the theme accent slots.
func seriesColor(s *serXML, pos int, res *style.Resolver) string {
	if s.SpPr != nil && s.SpPr.FillProperties.Present() {
		fill := res.ResolveFill(style.FillCascade{Direct: &s.SpPr.FillProperties})
		if fill.Color != "" {
			return fill.Color
		}
	}
	slot := "accent" + strconv.Itoa(pos%6+1)
	if hex, ok := res.SchemeColor(slot); ok {
		return hex
	}
	return ""
}

// numPointWidth reports how many slots the cache's points need, honoring
// explicit indices and the declared point count.
func numPointWidth(nd *numDataXML) int {
	cache := numCache(nd)
	if cache == nil {
		return 0
	}
	return cacheWidth(cache.PtCount, cache.Pts)
}

func axPointWidth(ax *axDataXML) int {
	if ax == nil {
		return 0
	}
	switch {
	case ax.StrRef != nil && ax.StrRef.Cache != nil:
		return cacheWidth(ax.StrRef.Cache.PtCount, ax.StrRef.Cache.Pts)
	case ax.StrLit != nil:
		return cacheWidth(ax.StrLit.PtCount, ax.StrLit.Pts)
	case ax.NumRef != nil && ax.NumRef.Cache != nil:
		return cacheWidth(ax.NumRef.Cache.PtCount, ax.NumRef.Cache.Pts)
	case ax.NumLit != nil:
		return cacheWidth(ax.NumLit.PtCount, ax.NumLit.Pts)
	}
	return 0
}

func cacheWidth(count *ptCountXML, pts []ptXML) int {
	n := 0
	if count != nil {
		n = count.Val
	}
	for _, pt := range pts {
		if pt.Idx+1 > n {
			n = pt.Idx + 1
		}
	}
	return n
}

func numCache(nd *numDataXML) *numCacheXML {
	if nd == nil {
		return nil
	}
	if nd.NumRef != nil {
		return nd.NumRef.Cache
	}
	return nd.NumLit
}

// fillNumPoints places cached values into row by explicit index. Missing
// indices stay zero.
func fillNumPoints(row []float64, nd *numDataXML) {
	cache := numCache(nd)
	if cache == nil {
		return
	}
	for _, pt := range cache.Pts {
		if pt.Idx < 0 || pt.Idx >= len(row) {
			continue
		}
		if v, err := strconv.ParseFloat(pt.V, 64); err == nil {
			row[pt.Idx] = v
		}
	}
}

// categoryLabels reads an index-keyed label sequence in any of its
// reference or literal forms, returning the labels and the slot count.
func categoryLabels(ax *axDataXML) ([]string, int) {
	if ax == nil {
		return nil, 0
	}
	var count *ptCountXML
	var pts []ptXML
	switch {
	case ax.StrRef != nil && ax.StrRef.Cache != nil:
		count, pts = ax.StrRef.Cache.PtCount, ax.StrRef.Cache.Pts
	case ax.StrLit != nil:
		count, pts = ax.StrLit.PtCount, ax.StrLit.Pts
	case ax.NumRef != nil && ax.NumRef.Cache != nil:
		count, pts = ax.NumRef.Cache.PtCount, ax.NumRef.Cache.Pts
	case ax.NumLit != nil:
		count, pts = ax.NumLit.PtCount, ax.NumLit.Pts
	default:
		return nil, 0
	}
	width := cacheWidth(count, pts)
	labels := make([]string, width)
	for _, pt := range pts {
		if pt.Idx >= 0 && pt.Idx < width {
			labels[pt.Idx] = pt.V
		}
	}
	return labels, width
}

func padLabels(labels []string, width int) []string {
	if len(labels) >= width {
		return labels
	}
	out := make([]string, width)
	copy(out, labels)
	return out
}
