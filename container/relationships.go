package container

import (
	"encoding/xml"
	"path"
	"strings"
)

// Relationship is one entry of a part's relationship table.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// relationshipsXML is the on-disk shape of a .rels part.
type relationshipsXML struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Relationship []Relationship `xml:"Relationship"`
}

// Relationship type suffixes the engine resolves.
const (
	RelTypeSlideLayout = "/slideLayout"
	RelTypeSlideMaster = "/slideMaster"
	RelTypeTheme       = "/theme"
	RelTypeNotesSlide  = "/notesSlide"
	RelTypeChart       = "/chart"
	RelTypeImage       = "/image"
)

// parseAllRelationships loads every .rels part into the relationship map,
// keyed by the owner part name ("" for the root relationships).
func (p *Package) parseAllRelationships() {
	for name := range p.parts {
		if !strings.HasSuffix(name, ".rels") {
			continue
		}
		var rels relationshipsXML
		if err := p.XML(name, &rels); err != nil {
			continue // a malformed rels part degrades to unresolved references
		}
		p.rels[relsOwner(name)] = rels.Relationship
	}
}

// relsOwner maps "ppt/slides/_rels/slide1.xml.rels" to "ppt/slides/slide1.xml"
// and "_rels/.rels" to "".
func relsOwner(relsPath string) string {
	dir := path.Dir(path.Dir(relsPath)) // strip the _rels segment
	base := strings.TrimSuffix(path.Base(relsPath), ".rels")
	if base == "" || base == "." {
		return ""
	}
	if dir == "." {
		return base
	}
	return path.Join(dir, base)
}

// Rel resolves a relationship id in the context of an owner part.
func (p *Package) Rel(owner, id string) (Relationship, bool) {
	for _, rel := range p.rels[normalizePartName(owner)] {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// RelTarget resolves a relationship id to an absolute part name. Unresolved
// or external references return ("", false); they never fail the conversion.
func (p *Package) RelTarget(owner, id string) (string, bool) {
	rel, ok := p.Rel(owner, id)
	if !ok || strings.EqualFold(rel.TargetMode, "External") {
		return "", false
	}
	return resolveTarget(owner, rel.Target), true
}

// RelByType returns the first relationship of the owner whose type ends in
// the given suffix.
func (p *Package) RelByType(owner, typeSuffix string) (Relationship, bool) {
	for _, rel := range p.rels[normalizePartName(owner)] {
		if strings.HasSuffix(rel.Type, typeSuffix) {
			return rel, true
		}
	}
	return Relationship{}, false
}

// RelTargetByType resolves the first relationship of the given type suffix
// to an absolute part name.
func (p *Package) RelTargetByType(owner, typeSuffix string) (string, bool) {
	rel, ok := p.RelByType(owner, typeSuffix)
	if !ok || strings.EqualFold(rel.TargetMode, "External") {
		return "", false
	}
	return resolveTarget(owner, rel.Target), true
}

// LayoutPath returns the slide layout part for a slide.
func (p *Package) LayoutPath(slidePath string) (string, bool) {
	return p.RelTargetByType(slidePath, RelTypeSlideLayout)
}

// MasterPath returns the slide master part for a layout.
func (p *Package) MasterPath(layoutPath string) (string, bool) {
	return p.RelTargetByType(layoutPath, RelTypeSlideMaster)
}

// ThemePath returns the theme part for a master.
func (p *Package) ThemePath(masterPath string) (string, bool) {
	return p.RelTargetByType(masterPath, RelTypeTheme)
}

// NotesPath returns the notes slide part for a slide.
func (p *Package) NotesPath(slidePath string) (string, bool) {
	return p.RelTargetByType(slidePath, RelTypeNotesSlide)
}

// resolveTarget joins a relationship target against its owner's directory,
// collapsing "../" segments.
func resolveTarget(owner, target string) string {
	target = strings.TrimPrefix(target, "/")
	ownerDir := "."
	if owner != "" {
		ownerDir = path.Dir(normalizePartName(owner))
	}
	resolved := path.Clean(path.Join(ownerDir, target))
	return strings.TrimPrefix(resolved, "./")
}
