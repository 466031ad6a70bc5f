package convert

import (
	"sort"

	"github.com/tsawler/deckjson/model"
	"github.com/tsawler/deckjson/pptx"
)

// Converter turns one parsed element into an output element. Convert
// returns (nil, false) when the element produces no output. Converters
// must be pure functions of their inputs.
type Converter interface {
	Kind() pptx.ElementKind
	Priority() int
	CanConvert(el *pptx.Element) bool
	Convert(el *pptx.Element, ctx *Context) (*model.Element, bool)
}

// Registry dispatches elements to converters. The common path is a direct
// lookup by element kind; registered custom converters are scanned in
// priority order first, so a custom converter can claim an element away
// from a built-in.
type Registry struct {
	byKind map[pptx.ElementKind]Converter
	custom []Converter // descending priority
}

// NewRegistry returns a registry with the built-in converters installed.
func NewRegistry() *Registry {
	r := &Registry{byKind: make(map[pptx.ElementKind]Converter)}
	for _, c := range []Converter{
		textConverter{},
		imageConverter{},
		shapeConverter{},
		lineConverter{},
		chartConverter{},
		tableConverter{},
	} {
		r.Register(c)
	}
	return r
}

// Register installs a converter for its kind, replacing any previous one.
func (r *Registry) Register(c Converter) {
	r.byKind[c.Kind()] = c
}

// RegisterCustom adds a converter to the ambiguous-input scan list.
func (r *Registry) RegisterCustom(c Converter) {
	r.custom = append(r.custom, c)
	sort.SliceStable(r.custom, func(i, j int) bool {
		return r.custom[i].Priority() > r.custom[j].Priority()
	})
}

// Lookup finds the converter responsible for an element.
func (r *Registry) Lookup(el *pptx.Element) (Converter, bool) {
	for _, c := range r.custom {
		if c.CanConvert(el) {
			return c, true
		}
	}
	c, ok := r.byKind[el.Kind]
	return c, ok
}
