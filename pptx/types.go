// Package pptx parses presentation slide parts into a typed element model.
package pptx

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tsawler/deckjson/style"
)

// slideXML represents a ppt/slides/slideN.xml part.
type slideXML struct {
	XMLName    xml.Name       `xml:"sld"`
	CSld       cSldXML        `xml:"cSld"`
	ClrMapOvr  *clrMapOvrXML  `xml:"clrMapOvr"`
	Transition *transitionXML `xml:"transition"`
}

// layoutXML represents a slide layout part.
type layoutXML struct {
	XMLName xml.Name `xml:"sldLayout"`
	CSld    cSldXML  `xml:"cSld"`
}

// masterXML represents a slide master part.
type masterXML struct {
	XMLName xml.Name      `xml:"sldMaster"`
	CSld    cSldXML       `xml:"cSld"`
	ClrMap  *style.ClrMap `xml:"clrMap"`
}

// notesXML represents a notes slide part.
type notesXML struct {
	XMLName xml.Name `xml:"notes"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	Bg     *bgXML    `xml:"bg"`
	SpTree spTreeXML `xml:"spTree"`
}

type clrMapOvrXML struct {
	Override *style.ClrMap `xml:"overrideClrMapping"`
}

type bgXML struct {
	BgPr  *bgPrXML        `xml:"bgPr"`
	BgRef *style.StyleRef `xml:"bgRef"`
}

type bgPrXML struct {
	style.FillProperties
}

// boolAttr is an xsd:boolean attribute. Writers spell these as "1"/"0" or
// "true"/"false"; both must parse.
type boolAttr bool

func (b *boolAttr) UnmarshalXMLAttr(attr xml.Attr) error {
	switch attr.Value {
	case "1", "true", "on":
		*b = true
	case "0", "false", "off", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s=%q", attr.Name.Local, attr.Value)
	}
	return nil
}

// nodeKind tags one ordered child of a shape tree.
type nodeKind int

const (
	nodeShape nodeKind = iota
	nodePicture
	nodeFrame
	nodeConnector
	nodeGroup
	nodeMalformed
)

// treeNode is one shape-tree child in document order. A nodeMalformed entry
// marks a child that failed to decode; Tag keeps its element name for the
// warning.
type treeNode struct {
	Kind  nodeKind
	Tag   string
	Sp    *spXML
	Pic   *picXML
	Frame *graphicFrameXML
	Cxn   *cxnSpXML
	Grp   *grpSpXML
}

// spTreeXML preserves document order across heterogeneous children; the
// order defines z-order, so decoding walks tokens rather than using one
// slice per tag.
type spTreeXML struct {
	Children []treeNode
}

// UnmarshalXML decodes shape-tree children in document order.
func (t *spTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			node, ok, err := decodeTreeChild(d, el)
			if err != nil {
				return err
			}
			if ok {
				t.Children = append(t.Children, node)
			}
		case xml.EndElement:
			if el.Name == start.Name {
				return nil
			}
		}
	}
}

// decodeTreeChild decodes a single shape-tree child element. Unknown tags
// are skipped, not failed. A known child that fails to decode, from a bad
// attribute or broken markup inside it, becomes a malformed marker node;
// that keeps a broken element from taking its siblings down with it.
func decodeTreeChild(d *xml.Decoder, el xml.StartElement) (treeNode, bool, error) {
	var (
		node treeNode
		dst  any
	)
	switch el.Name.Local {
	case "sp":
		sp := new(spXML)
		node, dst = treeNode{Kind: nodeShape, Sp: sp}, sp
	case "pic":
		pic := new(picXML)
		node, dst = treeNode{Kind: nodePicture, Pic: pic}, pic
	case "graphicFrame":
		gf := new(graphicFrameXML)
		node, dst = treeNode{Kind: nodeFrame, Frame: gf}, gf
	case "cxnSp":
		cxn := new(cxnSpXML)
		node, dst = treeNode{Kind: nodeConnector, Cxn: cxn}, cxn
	case "grpSp":
		grp := new(grpSpXML)
		node, dst = treeNode{Kind: nodeGroup, Grp: grp}, grp
	default:
		if err := d.Skip(); err != nil {
			return treeNode{}, false, err
		}
		return treeNode{}, false, nil
	}

	// Capture first, decode second. DecodeElement can die partway through
	// a child and leave the decoder at an unknown depth; buffering the
	// subtree keeps the outer decoder positioned past the child no matter
	// how the decode goes.
	toks, err := captureSubtree(d, el)
	if err != nil {
		return treeNode{}, false, err
	}
	if err := decodeSubtree(toks, dst); err != nil {
		return treeNode{Kind: nodeMalformed, Tag: el.Name.Local}, true, nil
	}
	return node, true, nil
}

// captureSubtree copies the element opened by start through its matching
// end tag.
func captureSubtree(d *xml.Decoder, start xml.StartElement) ([]xml.Token, error) {
	toks := []xml.Token{start.Copy()}
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
		toks = append(toks, xml.CopyToken(tok))
	}
	return toks, nil
}

// decodeSubtree unmarshals a captured element into dst.
func decodeSubtree(toks []xml.Token, dst any) error {
	sub := xml.NewTokenDecoder(&tokenSliceReader{toks: toks})
	tok, err := sub.Token()
	if err != nil {
		return err
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return fmt.Errorf("captured subtree does not open with an element")
	}
	return sub.DecodeElement(dst, &start)
}

// tokenSliceReader replays captured tokens for xml.NewTokenDecoder.
type tokenSliceReader struct {
	toks []xml.Token
}

func (r *tokenSliceReader) Token() (xml.Token, error) {
	if len(r.toks) == 0 {
		return nil, io.EOF
	}
	tok := r.toks[0]
	r.toks = r.toks[1:]
	return tok, nil
}

// grpSpXML is a shape group. Children interleave with the group's own
// property elements, so decoding walks tokens.
type grpSpXML struct {
	CNvPr    cNvPrXML
	GrpSpPr  grpSpPrXML
	Children []treeNode
}

// UnmarshalXML decodes the group header and its children in document order.
func (g *grpSpXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "nvGrpSpPr":
				var nv nvGrpSpPrXML
				if err := d.DecodeElement(&nv, &el); err != nil {
					return err
				}
				g.CNvPr = nv.CNvPr
			case "grpSpPr":
				if err := d.DecodeElement(&g.GrpSpPr, &el); err != nil {
					return err
				}
			default:
				node, ok, err := decodeTreeChild(d, el)
				if err != nil {
					return err
				}
				if ok {
					g.Children = append(g.Children, node)
				}
			}
		case xml.EndElement:
			if el.Name == start.Name {
				return nil
			}
		}
	}
}

type nvGrpSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type grpSpPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
	style.FillProperties
	EffectLst *style.EffectList `xml:"effectLst"`
}

// cNvPrXML carries the non-visual identity of any element.
type cNvPrXML struct {
	ID     string   `xml:"id,attr"`
	Name   string   `xml:"name,attr"`
	Hidden boolAttr `xml:"hidden,attr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"`
}

// phXML marks a placeholder and its inheritance key.
type phXML struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

type spXML struct {
	NvSpPr nvSpPrXML         `xml:"nvSpPr"`
	SpPr   spPrXML           `xml:"spPr"`
	Style  *style.ShapeStyle `xml:"style"`
	TxBody *txBodyXML        `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type spPrXML struct {
	Xfrm     *xfrmXML     `xml:"xfrm"`
	PrstGeom *prstGeomXML `xml:"prstGeom"`
	style.FillProperties
	Ln        *style.LineProperties `xml:"ln"`
	EffectLst *style.EffectList     `xml:"effectLst"`
	Sp3D      *style.Empty          `xml:"sp3d"`
	Scene3D   *style.Empty          `xml:"scene3d"`
}

type prstGeomXML struct {
	Prst string `xml:"prst,attr"`
}

// xfrmXML is a 2D transform. Offsets and extents are EMU; Rot is in
// 1/60000 degree units.
type xfrmXML struct {
	Rot   int64    `xml:"rot,attr"`
	FlipH boolAttr `xml:"flipH,attr"`
	FlipV boolAttr `xml:"flipV,attr"`
	Off   *offXML  `xml:"off"`
	Ext   *extXML  `xml:"ext"`
	ChOff *offXML  `xml:"chOff"`
	ChExt *extXML  `xml:"chExt"`
}

type offXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type extXML struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type picXML struct {
	NvPicPr  nvPicPrXML        `xml:"nvPicPr"`
	BlipFill *style.BlipFill   `xml:"blipFill"`
	SpPr     spPrXML           `xml:"spPr"`
	Style    *style.ShapeStyle `xml:"style"`
}

type nvPicPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type cxnSpXML struct {
	NvCxnSpPr nvCxnSpPrXML      `xml:"nvCxnSpPr"`
	SpPr      spPrXML           `xml:"spPr"`
	Style     *style.ShapeStyle `xml:"style"`
}

type nvCxnSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type graphicFrameXML struct {
	NvGraphicFramePr nvGraphicFramePrXML `xml:"nvGraphicFramePr"`
	Xfrm             *xfrmXML            `xml:"xfrm"`
	Graphic          graphicXML          `xml:"graphic"`
}

type nvGraphicFramePrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI   string       `xml:"uri,attr"`
	Tbl   *tblXML      `xml:"tbl"`
	Chart *chartRefXML `xml:"chart"`
}

type chartRefXML struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// txBodyXML is a text body with its paragraphs.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

type pXML struct {
	PPr *pPrXML  `xml:"pPr"`
	R   []rXML   `xml:"r"`
	Fld []fldXML `xml:"fld"`
}

type pPrXML struct {
	Algn      string        `xml:"algn,attr"`
	Lvl       int           `xml:"lvl,attr"`
	BuNone    *style.Empty  `xml:"buNone"`
	BuChar    *buCharXML    `xml:"buChar"`
	BuAutoNum *buAutoNumXML `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"`
}

type buAutoNumXML struct {
	Type string `xml:"type,attr"`
}

type rXML struct {
	RPr *rPrXML `xml:"rPr"`
	T   string  `xml:"t"`
}

type fldXML struct {
	T string `xml:"t"`
}

// rPrXML holds run-level character properties. Sz is in hundredths of a
// point.
type rPrXML struct {
	B      *boolAttr        `xml:"b,attr"`
	I      *boolAttr        `xml:"i,attr"`
	U      string           `xml:"u,attr"`
	Strike string           `xml:"strike,attr"`
	Sz     int              `xml:"sz,attr"`
	Solid  *style.SolidFill `xml:"solidFill"`
	Latin  *latinXML        `xml:"latin"`
}

type latinXML struct {
	Typeface string `xml:"typeface,attr"`
}

// transitionXML captures the transition kind (the first effect child's tag
// name) and duration attributes.
type transitionXML struct {
	Kind  string
	Dur   string
	Speed string
}

// UnmarshalXML records the duration attributes and the first child element
// name as the transition kind.
func (tr *transitionXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "dur":
			tr.Dur = attr.Value
		case "spd":
			tr.Speed = attr.Value
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if tr.Kind == "" && el.Name.Local != "sndAc" && el.Name.Local != "extLst" {
				tr.Kind = el.Name.Local
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if el.Name == start.Name {
				return nil
			}
		}
	}
}
