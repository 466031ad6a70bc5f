// Package container provides read access to the parts, relationships, and
// media of a presentation package (a ZIP-based OOXML container).
package container

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/tsawler/deckjson/format"
)

// Required part names. A package missing any of these is rejected.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partPresentation = "ppt/presentation.xml"
)

// Package is an immutable handle over the named parts of one presentation
// container. It is owned exclusively by a single conversion run.
type Package struct {
	parts      map[string][]byte
	rels       map[string][]Relationship // keyed by owner part name
	slidePaths []string                  // presentation order
	size       int64
}

// checkSignature rejects inputs whose magic bytes cannot be a package.
func checkSignature(data []byte) error {
	switch format.Detect(data) {
	case format.ZipPackage:
		return nil
	case format.EmptyArchive:
		return &FileFormatError{Reason: "package contains no parts"}
	case format.CompoundFile:
		return &FileFormatError{Reason: "legacy binary presentation (OLE compound file) is not a supported package"}
	default:
		return &FileFormatError{Reason: "not a ZIP package (bad archive signature)"}
	}
}

// Open reads a package from disk. See FromBytes.
func Open(filename string) (*Package, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading package: %w", err)
	}
	return FromBytes(data)
}

// FromBytes opens a package from raw bytes. It validates the container
// signature and the presence of required parts, returning *FileFormatError
// or *StructuralError respectively.
func FromBytes(data []byte) (*Package, error) {
	if err := checkSignature(data); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &FileFormatError{Reason: fmt.Sprintf("corrupt archive: %v", err)}
	}

	p := &Package{
		parts: make(map[string][]byte, len(zr.File)),
		rels:  make(map[string][]Relationship),
		size:  int64(len(data)),
	}

	for _, f := range zr.File {
		// Entry flags claiming encryption are not trusted here; actual
		// encrypted-input rejection happens before the engine runs.
		rc, err := f.Open()
		if err != nil {
			return nil, &FileFormatError{Reason: fmt.Sprintf("reading entry %s: %v", f.Name, err)}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &FileFormatError{Reason: fmt.Sprintf("reading entry %s: %v", f.Name, err)}
		}
		p.parts[normalizePartName(f.Name)] = content
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	p.parseAllRelationships()
	p.orderSlides()

	if len(p.slidePaths) == 0 {
		return nil, &StructuralError{Reason: "no slides found in presentation"}
	}
	return p, nil
}

// validate checks that required parts exist and that at least one slide part
// is present.
func (p *Package) validate() error {
	var missing []string
	for _, name := range []string{partContentTypes, partRootRels, partPresentation} {
		if _, ok := p.parts[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &StructuralError{Missing: missing}
	}

	hasSlide := false
	for name := range p.parts {
		if isSlidePart(name) {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return &StructuralError{Reason: "no slides found in presentation"}
	}
	return nil
}

// Part returns the raw bytes of a named part.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[normalizePartName(name)]
	return data, ok
}

// HasPart reports whether the named part exists.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[normalizePartName(name)]
	return ok
}

// Size returns the byte size of the original container.
func (p *Package) Size() int64 {
	return p.size
}

// XML unmarshals a named XML part into v. The decoder tolerates non-UTF-8
// encodings by routing through a charset-aware reader.
func (p *Package) XML(name string, v any) error {
	data, ok := p.Part(name)
	if !ok {
		return fmt.Errorf("part not found: %s", name)
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// SlidePaths returns slide part names in presentation order.
func (p *Package) SlidePaths() []string {
	return p.slidePaths
}

// HasMacros reports whether the package carries an embedded VBA project.
// Detection only; macro content is never read or executed.
func (p *Package) HasMacros() bool {
	for name := range p.parts {
		if strings.Contains(strings.ToLower(path.Base(name)), "vbaproject") {
			return true
		}
	}
	return false
}

// orderSlides determines slide order from the presentation part's sldIdLst,
// falling back to numeric filename order for slides the list misses.
func (p *Package) orderSlides() {
	var fromList []string
	var pres presentationXML
	if err := p.XML(partPresentation, &pres); err == nil {
		for _, sld := range pres.SldIDLst.SldID {
			if target, ok := p.RelTarget(partPresentation, sld.RID); ok && isSlidePart(target) {
				fromList = append(fromList, target)
			}
		}
	}

	seen := make(map[string]bool, len(fromList))
	for _, s := range fromList {
		seen[s] = true
	}

	var rest []string
	for name := range p.parts {
		if isSlidePart(name) && !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return slideNumber(rest[i]) < slideNumber(rest[j])
	})

	p.slidePaths = append(fromList, rest...)
}

// presentationXML is the subset of ppt/presentation.xml the engine needs.
type presentationXML struct {
	XMLName  xml.Name `xml:"presentation"`
	SldIDLst struct {
		SldID []struct {
			ID  string `xml:"id,attr"`
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldId"`
	} `xml:"sldIdLst"`
	SldSz struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

// SlideSize returns the declared slide dimensions in EMU, or the standard
// 16:9 size when the presentation part omits them.
func (p *Package) SlideSize() (cx, cy int64) {
	var pres presentationXML
	if err := p.XML(partPresentation, &pres); err == nil && pres.SldSz.Cx > 0 && pres.SldSz.Cy > 0 {
		return pres.SldSz.Cx, pres.SldSz.Cy
	}
	return 12192000, 6858000
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") &&
		strings.HasSuffix(name, ".xml") &&
		!strings.Contains(name, "_rels")
}

// slideNumber extracts the numeric suffix from "ppt/slides/slideN.xml".
func slideNumber(name string) int {
	s := strings.TrimPrefix(name, "ppt/slides/slide")
	s = strings.TrimSuffix(s, ".xml")
	var n int
	fmt.Sscanf(s, "%d", &n)
	return n
}

// normalizePartName cleans a part name for map lookup. The empty name is
// the package root, which owns _rels/.rels; path.Clean would turn it into
// "." and break that lookup.
func normalizePartName(name string) string {
	if name == "" {
		return ""
	}
	cleaned := strings.TrimPrefix(path.Clean(name), "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}
