package convert

import (
	"github.com/tsawler/deckjson/chart"
	"github.com/tsawler/deckjson/model"
	"github.com/tsawler/deckjson/pptx"
)

// placeElement maps the shared placement fields of any element. Rotation
// defaults to 0 and all lengths land in pixel space.
func placeElement(el *pptx.Element) model.Element {
	return model.Element{
		ID:     el.ID,
		Name:   el.Name,
		Left:   EmuToPx(el.Transform.X),
		Top:    EmuToPx(el.Transform.Y),
		Width:  EmuToPx(el.Transform.W),
		Height: EmuToPx(el.Transform.H),
		Rotate: RotToDeg(el.Transform.Rot),
		FlipH:  el.Transform.FlipH,
		FlipV:  el.Transform.FlipV,
		Hidden: el.Hidden,
	}
}

func fillPtr(f model.Fill) *model.Fill {
	if f.Type == "" || f.Type == model.FillNone {
		return nil
	}
	out := f
	return &out
}

type textConverter struct{}

func (textConverter) Kind() pptx.ElementKind { return pptx.KindText }
func (textConverter) Priority() int          { return 0 }
func (textConverter) CanConvert(el *pptx.Element) bool {
	return el.Kind == pptx.KindText && el.Text != nil
}

func (textConverter) Convert(el *pptx.Element, ctx *Context) (*model.Element, bool) {
	out := placeElement(el)
	out.Type = model.TypeText
	out.Fill = fillPtr(el.Fill)
	out.Border = el.Border
	out.Shadow = el.Shadow
	out.Shape = el.Shape
	out.Content = el.Text.Text()

	for _, p := range el.Text.Paragraphs {
		para := model.Para{
			Align:    p.Align,
			Level:    p.Level,
			Bullet:   p.Bullet,
			Numbered: p.Numbered,
		}
		for _, r := range p.Runs {
			run := model.Run{
				Text:      r.Text,
				Bold:      r.Bold,
				Italic:    r.Italic,
				Underline: r.Underline,
				Strike:    r.Strike,
				Font:      r.Font,
				Color:     r.Color,
			}
			if r.SizePt > 0 {
				run.FontSize = PtToPx(r.SizePt)
			}
			para.Runs = append(para.Runs, run)
		}
		out.Paragraphs = append(out.Paragraphs, para)
	}

	// Element-level shorthand mirrors the first formatted run.
	for _, p := range out.Paragraphs {
		for _, r := range p.Runs {
			if r.Text == "" {
				continue
			}
			out.FontSize = r.FontSize
			if r.Bold {
				out.FontWeight = "bold"
			}
			if r.Italic {
				out.FontStyle = "italic"
			}
			out.Color = r.Color
			return &out, true
		}
	}
	return &out, true
}

type imageConverter struct{}

func (imageConverter) Kind() pptx.ElementKind { return pptx.KindImage }
func (imageConverter) Priority() int          { return 0 }
func (imageConverter) CanConvert(el *pptx.Element) bool {
	return el.Kind == pptx.KindImage && el.Image != nil
}

func (imageConverter) Convert(el *pptx.Element, ctx *Context) (*model.Element, bool) {
	key, ok := ctx.ResolveMedia(el.Image.RelID)
	if !ok {
		ctx.Warn(model.Warning{
			Code:       model.WarnMediaUnresolved,
			Message:    "image reference " + el.Image.RelID + " did not resolve, element dropped",
			ElementID:  el.ID,
			Suggestion: "check that the media part exists and is not an external link",
		})
		return nil, false
	}
	out := placeElement(el)
	out.Type = model.TypeImage
	out.Src = key
	out.Border = el.Border
	out.Shadow = el.Shadow
	return &out, true
}

type shapeConverter struct{}

func (shapeConverter) Kind() pptx.ElementKind { return pptx.KindShape }
func (shapeConverter) Priority() int          { return 0 }
func (shapeConverter) CanConvert(el *pptx.Element) bool {
	return el.Kind == pptx.KindShape
}

func (shapeConverter) Convert(el *pptx.Element, ctx *Context) (*model.Element, bool) {
	out := placeElement(el)
	out.Type = model.TypeShape
	out.Shape = el.Shape
	if out.Shape == "" {
		out.Shape = "rect"
	}
	fill := el.Fill
	if fill.Type == "" || fill.Type == model.FillNone {
		fill = model.SolidFill("#FFFFFF")
	}
	out.Fill = &fill
	out.Border = el.Border
	out.Shadow = el.Shadow
	return &out, true
}

type lineConverter struct{}

func (lineConverter) Kind() pptx.ElementKind { return pptx.KindLine }
func (lineConverter) Priority() int          { return 0 }
func (lineConverter) CanConvert(el *pptx.Element) bool {
	return el.Kind == pptx.KindLine
}

func (lineConverter) Convert(el *pptx.Element, ctx *Context) (*model.Element, bool) {
	out := placeElement(el)
	out.Type = model.TypeLine
	out.Border = el.Border
	if out.Border == nil {
		out.Border = &model.Border{Color: "#000000", Width: 1, Dash: model.DashSolid}
	}

	// A connector runs corner to corner of its box; flips pick which
	// corners.
	x1, y1 := out.Left, out.Top
	x2, y2 := out.Left+out.Width, out.Top+out.Height
	if el.Transform.FlipH {
		x1, x2 = x2, x1
	}
	if el.Transform.FlipV {
		y1, y2 = y2, y1
	}
	out.Points = [][2]float64{{x1, y1}, {x2, y2}}
	return &out, true
}

type chartConverter struct{}

func (chartConverter) Kind() pptx.ElementKind { return pptx.KindChart }
func (chartConverter) Priority() int          { return 0 }
func (chartConverter) CanConvert(el *pptx.Element) bool {
	return el.Kind == pptx.KindChart
}

func (chartConverter) Convert(el *pptx.Element, ctx *Context) (*model.Element, bool) {
	out := placeElement(el)
	out.Type = model.TypeChart

	var data *chart.Data
	if el.Chart != nil {
		data = el.Chart.Data
	}
	if data == nil {
		// Unrecognized chart subtype: the parser already warned, the
		// output carries a placeholder so slide layout stays intact.
		out.Data = &model.ChartData{
			ChartType: "bar",
			BarDir:    "col",
			Labels:    []string{},
			Series:    []string{},
			Values:    [][]float64{},
		}
		return &out, true
	}
	out.Data = &model.ChartData{
		ChartType: data.Type,
		BarDir:    data.BarDir,
		Labels:    data.Labels,
		Series:    data.Series,
		Values:    data.Values,
		Colors:    data.Colors,
		HoleSize:  data.HoleSize,
	}
	return &out, true
}

type tableConverter struct{}

func (tableConverter) Kind() pptx.ElementKind { return pptx.KindTable }
func (tableConverter) Priority() int          { return 0 }
func (tableConverter) CanConvert(el *pptx.Element) bool {
	return el.Kind == pptx.KindTable && el.Table != nil
}

func (tableConverter) Convert(el *pptx.Element, ctx *Context) (*model.Element, bool) {
	out := placeElement(el)
	out.Type = model.TypeTable
	out.Cols = 0
	if len(el.Table.Rows) > 0 {
		out.Cols = len(el.Table.Rows[0])
	}

	// Continuation cells are absorbed into the origin's spans and never
	// emitted.
	for _, row := range el.Table.Rows {
		var cells []model.TableCell
		for _, c := range row {
			if c.Covered {
				continue
			}
			cell := model.TableCell{
				Text:       c.Text,
				Bold:       c.Bold,
				Color:      c.Color,
				Background: c.Background,
			}
			if c.RowSpan > 1 {
				cell.RowSpan = c.RowSpan
			}
			if c.ColSpan > 1 {
				cell.ColSpan = c.ColSpan
			}
			cells = append(cells, cell)
		}
		out.Rows = append(out.Rows, cells)
	}
	return &out, true
}
