package pptx

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tsawler/deckjson/chart"
	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/model"
	"github.com/tsawler/deckjson/style"
)

const cascadeCacheSize = 16

// Options controls optional extraction work.
type Options struct {
	IncludeNotes       bool
	IncludeTransitions bool
}

// Parser turns slide parts into the typed element model. A Parser is scoped
// to one package and is not safe for concurrent use.
type Parser struct {
	pkg         *container.Package
	warn        func(model.Warning)
	cascades    *lru.Cache[string, *cascade]
	tableStyles *TableStyleCatalog
}

// cascade bundles the inheritance chain parts behind one slide.
type cascade struct {
	layout *layoutXML
	master *masterXML
	theme  *style.ThemeXML
	res    *style.Resolver
}

// New creates a parser over an extracted package. warn receives non-fatal
// findings; nil is allowed.
func New(pkg *container.Package, warn func(model.Warning)) *Parser {
	if warn == nil {
		warn = func(model.Warning) {}
	}
	cache, _ := lru.New[string, *cascade](cascadeCacheSize)
	return &Parser{
		pkg:         pkg,
		warn:        warn,
		cascades:    cache,
		tableStyles: ParseTableStyles(pkg),
	}
}

// EvictCaches drops memoized cascade parts and their resolver caches.
func (p *Parser) EvictCaches() {
	for _, key := range p.cascades.Keys() {
		if c, ok := p.cascades.Get(key); ok {
			c.res.EvictCache()
		}
	}
	p.cascades.Purge()
}

// Resolver returns the style resolver for a slide's theme chain.
func (p *Parser) Resolver(slidePath string) *style.Resolver {
	return p.cascadeFor(slidePath).res
}

// ParseSlide parses one slide part into the element model. Malformed child
// nodes are skipped with a warning; only an unreadable slide part fails.
func (p *Parser) ParseSlide(slidePath string, index int, opts Options) (*Slide, error) {
	var sx slideXML
	if err := p.pkg.XML(slidePath, &sx); err != nil {
		return nil, fmt.Errorf("slide %d: %w", index+1, err)
	}

	casc := p.cascadeFor(slidePath)
	res := casc.res
	if sx.ClrMapOvr != nil && sx.ClrMapOvr.Override != nil {
		// A slide-level color map override gets its own resolver so the
		// cached one stays valid for sibling slides.
		res = style.NewResolver(casc.theme)
		res.SetColorMap(sx.ClrMapOvr.Override)
	}

	slide := &Slide{Index: index, Path: slidePath}
	slide.Background = p.resolveBackground(&sx, casc, res)

	w := &walker{p: p, slide: slide, casc: casc, res: res, owner: slidePath}
	w.walk(sx.CSld.SpTree.Children, -1)

	if opts.IncludeTransitions && sx.Transition != nil {
		slide.Transition = convertTransition(sx.Transition)
	}
	if opts.IncludeNotes {
		slide.Notes = p.parseNotes(slidePath)
	}
	return slide, nil
}

// cascadeFor loads (or reuses) the layout/master/theme chain for a slide.
// Every link is optional; a bare slide still resolves against the default
// theme.
func (p *Parser) cascadeFor(slidePath string) *cascade {
	layoutPath, _ := p.pkg.LayoutPath(slidePath)
	key := layoutPath
	if key == "" {
		key = "~none"
	}
	if c, ok := p.cascades.Get(key); ok {
		return c
	}

	c := &cascade{}
	var masterPath, themePath string

	if layoutPath != "" {
		var lx layoutXML
		if err := p.pkg.XML(layoutPath, &lx); err == nil {
			c.layout = &lx
		}
		masterPath, _ = p.pkg.MasterPath(layoutPath)
	}
	if masterPath != "" {
		var mx masterXML
		if err := p.pkg.XML(masterPath, &mx); err == nil {
			c.master = &mx
		}
		themePath, _ = p.pkg.ThemePath(masterPath)
	}

	if themePath != "" {
		var tx style.ThemeXML
		if err := p.pkg.XML(themePath, &tx); err == nil {
			c.theme = &tx
		}
	}

	c.res = style.NewResolver(c.theme)
	if c.master != nil {
		c.res.SetColorMap(c.master.ClrMap)
	}
	p.cascades.Add(key, c)
	return c
}

// resolveBackground walks slide, layout, and master backgrounds in order,
// falling back to solid white.
func (p *Parser) resolveBackground(sx *slideXML, casc *cascade, res *style.Resolver) model.Fill {
	layers := []*bgXML{sx.CSld.Bg}
	if casc.layout != nil {
		layers = append(layers, casc.layout.CSld.Bg)
	}
	if casc.master != nil {
		layers = append(layers, casc.master.CSld.Bg)
	}

	for _, bg := range layers {
		if bg == nil {
			continue
		}
		var fill model.Fill
		switch {
		case bg.BgPr != nil:
			fill = res.ResolveFill(style.FillCascade{Direct: &bg.BgPr.FillProperties})
		case bg.BgRef != nil:
			fill = res.ResolveFill(style.FillCascade{Ref: bg.BgRef})
		}
		if fill.Type != "" && fill.Type != model.FillNone {
			return fill
		}
	}
	return model.SolidFill("#FFFFFF")
}

// parseNotes extracts speaker notes text, skipping the slide-image
// placeholder.
func (p *Parser) parseNotes(slidePath string) string {
	notesPath, ok := p.pkg.NotesPath(slidePath)
	if !ok {
		return ""
	}
	var nx notesXML
	if err := p.pkg.XML(notesPath, &nx); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, node := range nx.CSld.SpTree.Children {
		if node.Kind != nodeShape || node.Sp.TxBody == nil {
			continue
		}
		if ph := node.Sp.NvSpPr.NvPr.Ph; ph != nil && ph.Type == "sldImg" {
			continue
		}
		for _, para := range node.Sp.TxBody.P {
			text := paragraphText(&para)
			if text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
	}
	return strings.TrimSpace(sb.String())
}

func paragraphText(para *pXML) string {
	var sb strings.Builder
	for _, r := range para.R {
		sb.WriteString(r.T)
	}
	for _, f := range para.Fld {
		sb.WriteString(f.T)
	}
	return strings.TrimSpace(sb.String())
}

func convertTransition(tr *transitionXML) *model.Transition {
	out := &model.Transition{Kind: tr.Kind}
	if out.Kind == "" {
		out.Kind = "cut"
	}
	if ms, err := strconv.Atoi(tr.Dur); err == nil {
		out.DurationMS = ms
	} else {
		// Legacy speed attribute: slow/med/fast.
		switch tr.Speed {
		case "slow":
			out.DurationMS = 1000
		case "med":
			out.DurationMS = 750
		case "fast":
			out.DurationMS = 500
		}
	}
	return out
}

// walker builds the element arena for one slide.
type walker struct {
	p     *Parser
	slide *Slide
	casc  *cascade
	res   *style.Resolver
	owner string
	z     int
}

func (w *walker) walk(children []treeNode, parent int) {
	for i := range children {
		w.node(&children[i], parent)
	}
}

// node dispatches one shape-tree child. A panic while building a single
// element is contained here: the element is skipped with a warning and the
// walk continues.
func (w *walker) node(n *treeNode, parent int) {
	defer func() {
		if r := recover(); r != nil {
			w.p.warn(model.Warnf(model.WarnMalformedElement,
				"malformed element skipped on slide %d: %v", w.slide.Index+1, r))
		}
	}()

	switch n.Kind {
	case nodeShape:
		w.shape(n.Sp, parent)
	case nodePicture:
		w.picture(n.Pic, parent)
	case nodeFrame:
		w.frame(n.Frame, parent)
	case nodeConnector:
		w.connector(n.Cxn, parent)
	case nodeGroup:
		w.group(n.Grp, parent)
	case nodeMalformed:
		w.p.warn(model.Warnf(model.WarnMalformedElement,
			"malformed <%s> skipped on slide %d", n.Tag, w.slide.Index+1))
	}
}

// push appends an element to the arena, assigning its z-order, and returns
// its index.
func (w *walker) push(el Element, parent int) int {
	el.ZOrder = w.z
	el.Parent = parent
	w.z++
	w.slide.Elements = append(w.slide.Elements, el)
	return len(w.slide.Elements) - 1
}

func (w *walker) shape(sp *spXML, parent int) {
	ph := sp.NvSpPr.NvPr.Ph
	inherited := w.casc.placeholderShapes(ph)

	el := Element{
		Kind:      KindShape,
		ID:        sp.NvSpPr.CNvPr.ID,
		Name:      sp.NvSpPr.CNvPr.Name,
		Hidden:    bool(sp.NvSpPr.CNvPr.Hidden),
		Transform: resolveTransform(sp.SpPr.Xfrm, inherited),
	}
	if sp.SpPr.PrstGeom != nil {
		el.Shape = sp.SpPr.PrstGeom.Prst
	}

	el.Fill = w.res.ResolveFill(style.FillCascade{
		Direct:    &sp.SpPr.FillProperties,
		Ref:       fillRef(sp.Style),
		Inherited: inheritedFills(inherited),
	})
	el.Border = w.res.ResolveBorder(style.BorderCascade{
		Direct:    sp.SpPr.Ln,
		Ref:       lnRef(sp.Style),
		Inherited: inheritedLines(inherited),
	})
	el.Shadow = w.res.ResolveShadow(sp.SpPr.EffectLst)

	if sp.SpPr.Sp3D != nil || sp.SpPr.Scene3D != nil {
		el.Unsupported = &Unsupported{Construct: "shape3d"}
	}

	if body := w.textBody(sp.TxBody, ph); body != nil {
		el.Kind = KindText
		el.Text = body
	}
	w.push(el, parent)
}

func (w *walker) picture(pic *picXML, parent int) {
	el := Element{
		Kind:      KindImage,
		ID:        pic.NvPicPr.CNvPr.ID,
		Name:      pic.NvPicPr.CNvPr.Name,
		Hidden:    bool(pic.NvPicPr.CNvPr.Hidden),
		Transform: resolveTransform(pic.SpPr.Xfrm, nil),
		Image:     &ImageRef{},
	}
	if pic.BlipFill != nil && pic.BlipFill.Blip != nil {
		el.Image.RelID = pic.BlipFill.Blip.Embed
	}
	el.Border = w.res.ResolveBorder(style.BorderCascade{
		Direct: pic.SpPr.Ln,
		Ref:    lnRef(pic.Style),
	})
	el.Shadow = w.res.ResolveShadow(pic.SpPr.EffectLst)
	w.push(el, parent)
}

func (w *walker) connector(cxn *cxnSpXML, parent int) {
	el := Element{
		Kind:      KindLine,
		ID:        cxn.NvCxnSpPr.CNvPr.ID,
		Name:      cxn.NvCxnSpPr.CNvPr.Name,
		Transform: resolveTransform(cxn.SpPr.Xfrm, nil),
		Line:      &LineInfo{},
	}
	if ln := cxn.SpPr.Ln; ln != nil {
		if ln.HeadEnd != nil {
			el.Line.HeadArrow = ln.HeadEnd.Type
		}
		if ln.TailEnd != nil {
			el.Line.TailArrow = ln.TailEnd.Type
		}
	}
	el.Border = w.res.ResolveBorder(style.BorderCascade{
		Direct: cxn.SpPr.Ln,
		Ref:    lnRef(cxn.Style),
	})
	w.push(el, parent)
}

// frame handles a graphic frame: chart, table, or a flagged construct.
func (w *walker) frame(gf *graphicFrameXML, parent int) {
	el := Element{
		ID:        gf.NvGraphicFramePr.CNvPr.ID,
		Name:      gf.NvGraphicFramePr.CNvPr.Name,
		Transform: resolveTransform(gf.Xfrm, nil),
	}

	uri := strings.ToLower(gf.Graphic.GraphicData.URI)
	switch {
	case strings.Contains(uri, "/diagram"):
		el.Kind = KindShape
		el.Unsupported = &Unsupported{Construct: "smartart"}
		w.push(el, parent)
	case strings.Contains(uri, "/ole") || strings.Contains(uri, "oleobject"):
		el.Kind = KindShape
		el.Unsupported = &Unsupported{Construct: "oleobject"}
		w.push(el, parent)
	case strings.Contains(uri, "am3d") || strings.Contains(uri, "3dmodel"):
		el.Kind = KindShape
		el.Unsupported = &Unsupported{Construct: "model3d"}
		w.push(el, parent)
	case strings.Contains(uri, "/ink"):
		el.Kind = KindShape
		el.Unsupported = &Unsupported{Construct: "ink"}
		w.push(el, parent)
	case strings.Contains(uri, "control"):
		el.Kind = KindShape
		el.Unsupported = &Unsupported{Construct: "activex"}
		w.push(el, parent)
	case gf.Graphic.GraphicData.Chart != nil:
		el.Kind = KindChart
		el.Chart = w.loadChart(gf.Graphic.GraphicData.Chart.RID)
		w.push(el, parent)
	case gf.Graphic.GraphicData.Tbl != nil:
		el.Kind = KindTable
		el.Table = ExtractTable(gf.Graphic.GraphicData.Tbl, w.p.tableStyles, w.res, w.p.warn)
		w.push(el, parent)
	default:
		w.p.warn(model.Warning{
			Code:      model.WarnFrameDropped,
			Message:   fmt.Sprintf("graphic frame with unrecognized content dropped (uri %q)", gf.Graphic.GraphicData.URI),
			ElementID: el.ID,
		})
	}
}

// loadChart resolves and extracts the chart sub-document. Extraction
// failures degrade to a nil Data; converters substitute a placeholder.
func (w *walker) loadChart(relID string) *ChartInfo {
	info := &ChartInfo{RelID: relID}
	target, ok := w.p.pkg.RelTarget(w.owner, relID)
	if !ok {
		w.p.warn(model.Warnf(model.WarnUnknownChartType,
			"chart relationship %s did not resolve", relID))
		return info
	}
	data, ok := w.p.pkg.Part(target)
	if !ok {
		w.p.warn(model.Warnf(model.WarnUnknownChartType,
			"chart part %s missing", target))
		return info
	}
	extracted, ok := chart.Extract(data, w.res)
	if !ok {
		w.p.warn(model.Warnf(model.WarnUnknownChartType,
			"unrecognized chart subtype in %s, substituting placeholder", target))
		return info
	}
	info.Data = extracted
	return info
}

func (w *walker) group(grp *grpSpXML, parent int) {
	el := Element{
		Kind:   KindGroup,
		ID:     grp.CNvPr.ID,
		Name:   grp.CNvPr.Name,
		Hidden: bool(grp.CNvPr.Hidden),
		Group:  &GroupInfo{ScaleX: 1, ScaleY: 1},
	}
	el.Transform = resolveTransform(grp.GrpSpPr.Xfrm, nil)

	if xf := grp.GrpSpPr.Xfrm; xf != nil {
		if xf.ChOff != nil {
			el.Group.ChOffX = xf.ChOff.X
			el.Group.ChOffY = xf.ChOff.Y
		}
		if xf.ChExt != nil && xf.Ext != nil {
			if xf.ChExt.Cx > 0 {
				el.Group.ScaleX = float64(xf.Ext.Cx) / float64(xf.ChExt.Cx)
			}
			if xf.ChExt.Cy > 0 {
				el.Group.ScaleY = float64(xf.Ext.Cy) / float64(xf.ChExt.Cy)
			}
		}
	}

	idx := w.push(el, parent)
	before := len(w.slide.Elements)
	w.walk(grp.Children, idx)
	for i := before; i < len(w.slide.Elements); i++ {
		if w.slide.Elements[i].Parent == idx {
			w.slide.Elements[idx].Group.Children = append(w.slide.Elements[idx].Group.Children, i)
		}
	}
}

// textBody converts a txBody into paragraphs, returning nil when the body
// has no text.
func (w *walker) textBody(tx *txBodyXML, ph *phXML) *TextBody {
	if tx == nil {
		return nil
	}
	body := &TextBody{}
	hasText := false
	for i := range tx.P {
		para := w.paragraph(&tx.P[i])
		for _, r := range para.Runs {
			if r.Text != "" {
				hasText = true
			}
		}
		body.Paragraphs = append(body.Paragraphs, para)
	}
	if !hasText {
		return nil
	}
	return body
}

func (w *walker) paragraph(px *pXML) Paragraph {
	para := Paragraph{}
	if px.PPr != nil {
		para.Align = px.PPr.Algn
		para.Level = px.PPr.Lvl
		if px.PPr.BuNone == nil {
			switch {
			case px.PPr.BuAutoNum != nil:
				para.Numbered = true
			case px.PPr.BuChar != nil:
				para.Bullet = px.PPr.BuChar.Char
			}
		}
	}
	for _, r := range px.R {
		run := Run{Text: r.T}
		if r.RPr != nil {
			run.Bold = r.RPr.B != nil && bool(*r.RPr.B)
			run.Italic = r.RPr.I != nil && bool(*r.RPr.I)
			run.Underline = r.RPr.U != "" && r.RPr.U != "none"
			run.Strike = r.RPr.Strike != "" && r.RPr.Strike != "noStrike"
			if r.RPr.Sz > 0 {
				run.SizePt = float64(r.RPr.Sz) / 100
			}
			if r.RPr.Solid != nil {
				run.Color = w.res.ColorOr(&r.RPr.Solid.ColorChoice, "")
			}
			if r.RPr.Latin != nil {
				run.Font = r.RPr.Latin.Typeface
			}
		}
		para.Runs = append(para.Runs, run)
	}
	for _, f := range px.Fld {
		if f.T != "" {
			para.Runs = append(para.Runs, Run{Text: f.T})
		}
	}
	return para
}

// resolveTransform takes the element's own transform, or the first
// inherited placeholder transform when the element declares none.
func resolveTransform(xf *xfrmXML, inherited []*spXML) Transform {
	if xf == nil {
		for _, sp := range inherited {
			if sp.SpPr.Xfrm != nil {
				xf = sp.SpPr.Xfrm
				break
			}
		}
	}
	var t Transform
	if xf == nil {
		return t
	}
	t.Rot = xf.Rot
	t.FlipH = bool(xf.FlipH)
	t.FlipV = bool(xf.FlipV)
	if xf.Off != nil {
		t.X, t.Y = xf.Off.X, xf.Off.Y
	}
	if xf.Ext != nil {
		t.W, t.H = xf.Ext.Cx, xf.Ext.Cy
	}
	return t
}

// placeholderShapes finds the layout and master shapes a placeholder
// inherits from, layout first. Matching prefers the placeholder type, then
// the index.
func (c *cascade) placeholderShapes(ph *phXML) []*spXML {
	if ph == nil {
		return nil
	}
	var out []*spXML
	if c.layout != nil {
		if sp := findPlaceholder(c.layout.CSld.SpTree.Children, ph); sp != nil {
			out = append(out, sp)
		}
	}
	if c.master != nil {
		if sp := findPlaceholder(c.master.CSld.SpTree.Children, ph); sp != nil {
			out = append(out, sp)
		}
	}
	return out
}

func findPlaceholder(children []treeNode, ph *phXML) *spXML {
	var byIdx *spXML
	for i := range children {
		node := &children[i]
		if node.Kind != nodeShape {
			continue
		}
		candidate := node.Sp.NvSpPr.NvPr.Ph
		if candidate == nil {
			continue
		}
		if ph.Type != "" && candidate.Type == ph.Type {
			return node.Sp
		}
		if ph.Idx != "" && candidate.Idx == ph.Idx && byIdx == nil {
			byIdx = node.Sp
		}
	}
	return byIdx
}

func fillRef(s *style.ShapeStyle) *style.StyleRef {
	if s == nil {
		return nil
	}
	return s.FillRef
}

func lnRef(s *style.ShapeStyle) *style.StyleRef {
	if s == nil {
		return nil
	}
	return s.LnRef
}

func inheritedFills(shapes []*spXML) []*style.FillProperties {
	out := make([]*style.FillProperties, 0, len(shapes))
	for _, sp := range shapes {
		out = append(out, &sp.SpPr.FillProperties)
	}
	return out
}

func inheritedLines(shapes []*spXML) []*style.LineProperties {
	out := make([]*style.LineProperties, 0, len(shapes))
	for _, sp := range shapes {
		if sp.SpPr.Ln != nil {
			out = append(out, sp.SpPr.Ln)
		}
	}
	return out
}
