package convert

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/model"
	"github.com/tsawler/deckjson/pptx"
)

// Options configures one conversion run.
type Options struct {
	IncludeNotes       bool
	IncludeTransitions bool

	// Slides selects which slides to convert (1-indexed, presentation
	// order). Empty means all slides.
	Slides []int

	// InlineMedia embeds media bytes base64-encoded in the output. When
	// false (or after quality degradation) only mime type and dimensions
	// are kept.
	InlineMedia bool

	// Resolver overrides package-backed media lookup. It receives the
	// element's relationship id.
	Resolver MediaResolver

	Registry *Registry
	Policy   DowngradePolicy

	Thresholds Thresholds
	Sampler    MemorySampler

	// Version is stamped into the output metadata.
	Version string

	// Encrypted records an upstream validator's finding that the source
	// was encrypted. It only surfaces in the output metadata; encrypted
	// input itself is rejected before the engine runs.
	Encrypted bool
}

// run is the per-call orchestration state.
type run struct {
	pkg      *container.Package
	opts     Options
	parser   *pptx.Parser
	registry *Registry
	policy   DowngradePolicy

	warnings []model.Warning
	doc      *model.Document
	mediaKey map[string]string // part name -> media table key

	includeNotes       bool
	includeTransitions bool
	inlineMedia        bool
}

// Run converts an extracted package into the output document. The context
// is checked at slide boundaries only. A slide that fails is skipped with
// a warning; the conversion fails as a whole only for cancellation,
// critical memory pressure, or when no slide survives.
func Run(ctx context.Context, pkg *container.Package, opts Options) (*model.Document, []model.Warning, error) {
	start := time.Now()

	r := &run{
		pkg:                pkg,
		opts:               opts,
		registry:           opts.Registry,
		policy:             opts.Policy,
		doc:                model.NewDocument(),
		mediaKey:           make(map[string]string),
		includeNotes:       opts.IncludeNotes,
		includeTransitions: opts.IncludeTransitions,
		inlineMedia:        opts.InlineMedia,
	}
	if r.registry == nil {
		r.registry = NewRegistry()
	}
	if r.policy == nil {
		r.policy = DefaultPolicy()
	}
	r.parser = pptx.New(pkg, r.warn)

	thresholds := opts.Thresholds
	if thresholds.SoftLimit == 0 && thresholds.HardLimit == 0 {
		thresholds = DefaultThresholds()
	}
	controller := NewController(thresholds, opts.Sampler, r.warn, Actions{
		EvictCaches: r.parser.EvictCaches,
		SkipExtras: func() {
			r.includeNotes = false
			r.includeTransitions = false
		},
		ReduceQuality: func() { r.inlineMedia = false },
	})

	selected := make(map[int]bool, len(opts.Slides))
	for _, n := range opts.Slides {
		selected[n] = true
	}

	slidePaths := pkg.SlidePaths()
	for i, slidePath := range slidePaths {
		if len(selected) > 0 && !selected[i+1] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, r.warnings, fmt.Errorf("conversion canceled before slide %d: %w", i+1, err)
		}
		if err := controller.Check(); err != nil {
			return nil, r.warnings, err
		}

		slide, err := r.convertSlide(slidePath, i)
		if err != nil {
			r.warn(model.Warning{
				Code:       model.WarnSlideSkipped,
				Message:    fmt.Sprintf("slide %d skipped: %v", i+1, err),
				Suggestion: "the remaining slides were converted without it",
			})
			continue
		}
		r.doc.AddSlide(slide)
	}

	if len(r.doc.Slides) == 0 {
		return nil, r.warnings, &container.StructuralError{Reason: "no slides could be converted"}
	}

	r.fillTheme(slidePaths[0])
	r.fillMetadata(start, len(slidePaths))
	for _, w := range r.warnings {
		r.doc.Warnings = append(r.doc.Warnings, w.String())
	}
	return r.doc, r.warnings, nil
}

func (r *run) warn(w model.Warning) {
	r.warnings = append(r.warnings, w)
}

// convertSlide runs the per-slide pipeline. A panic inside any step is
// contained here so one bad slide cannot take down the run.
func (r *run) convertSlide(slidePath string, index int) (slide *model.Slide, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slide, err = nil, fmt.Errorf("internal failure: %v", rec)
		}
	}()

	parsed, err := r.parser.ParseSlide(slidePath, index, pptx.Options{
		IncludeNotes:       r.includeNotes,
		IncludeTransitions: r.includeTransitions,
	})
	if err != nil {
		return nil, err
	}

	slide = &model.Slide{
		ID:         fmt.Sprintf("slide-%d", index+1),
		Elements:   make([]model.Element, 0, len(parsed.Elements)),
		Background: parsed.Background,
		Transition: parsed.Transition,
		Notes:      parsed.Notes,
	}

	cctx := &Context{
		Warn:         r.warn,
		ResolveMedia: r.mediaResolverFor(slidePath),
	}

	type ordered struct {
		z  int
		el model.Element
	}
	var out []ordered

	for i := range parsed.Elements {
		el := &parsed.Elements[i]
		if el.Kind == pptx.KindGroup {
			continue // groups flatten away; children carry the group id
		}

		flat := *el
		flat.Transform = flattenTransform(parsed.Elements, i)

		converter, ok := r.registry.Lookup(&flat)
		if !ok {
			continue
		}
		converted, keep := converter.Convert(&flat, cctx)
		if el.Unsupported != nil {
			converted, keep = Downgrade(&flat, converted, r.policy, cctx)
		}
		if !keep || converted == nil {
			continue
		}
		if converted.ID == "" {
			converted.ID = uuid.NewString()
		}
		converted.GroupID = groupID(parsed.Elements, el.Parent)
		out = append(out, ordered{z: el.ZOrder, el: *converted})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].z < out[j].z })
	for _, o := range out {
		slide.Elements = append(slide.Elements, o.el)
	}
	return slide, nil
}

// flattenTransform maps an element's transform into slide space through
// its group ancestry: child offsets shift into the group's child
// coordinate origin, scale by the group's ext/chExt ratio, then translate
// by the group's own offset.
func flattenTransform(elems []pptx.Element, idx int) pptx.Transform {
	t := elems[idx].Transform
	for p := elems[idx].Parent; p >= 0; p = elems[p].Parent {
		g := &elems[p]
		if g.Group == nil {
			break
		}
		t.X = g.Transform.X + int64(float64(t.X-g.Group.ChOffX)*g.Group.ScaleX)
		t.Y = g.Transform.Y + int64(float64(t.Y-g.Group.ChOffY)*g.Group.ScaleY)
		t.W = int64(float64(t.W) * g.Group.ScaleX)
		t.H = int64(float64(t.H) * g.Group.ScaleY)
	}
	return t
}

// groupID returns the nearest enclosing group's element id, or empty at
// top level.
func groupID(elems []pptx.Element, parent int) string {
	if parent < 0 || parent >= len(elems) {
		return ""
	}
	return elems[parent].ID
}

// mediaResolverFor returns the media-key resolver for elements of one
// slide. Blobs register in the document media table on first use, keyed
// by part basename (or relationship id for externally resolved media).
func (r *run) mediaResolverFor(slidePath string) func(relID string) (string, bool) {
	return func(relID string) (string, bool) {
		if r.opts.Resolver != nil {
			media, ok := r.opts.Resolver(relID)
			if !ok {
				return "", false
			}
			r.registerMedia(relID, media)
			return relID, true
		}

		target, ok := r.pkg.RelTarget(slidePath, relID)
		if !ok {
			return "", false
		}
		if key, seen := r.mediaKey[target]; seen {
			return key, true
		}
		media, ok := r.pkg.Media(target)
		if !ok {
			return "", false
		}
		key := uniqueMediaKey(path.Base(target), r.doc.Media)
		r.mediaKey[target] = key
		r.registerMedia(key, media)
		return key, true
	}
}

func (r *run) registerMedia(key string, media container.Media) {
	entry := model.Media{
		MimeType: media.MimeType,
		Width:    media.Width,
		Height:   media.Height,
	}
	if r.inlineMedia {
		entry.Data = base64.StdEncoding.EncodeToString(media.Data)
	}
	r.doc.Media[key] = entry
}

func uniqueMediaKey(base string, existing map[string]model.Media) string {
	if _, taken := existing[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		key := fmt.Sprintf("%s-%d", base, i)
		if _, taken := existing[key]; !taken {
			return key
		}
	}
}

func (r *run) fillTheme(firstSlide string) {
	res := r.parser.Resolver(firstSlide)
	r.doc.Theme = model.Theme{
		Colors: res.SchemeColors(),
		Fonts: model.ThemeFonts{
			Major: res.MajorFont(),
			Minor: res.MinorFont(),
		},
	}
}

func (r *run) fillMetadata(start time.Time, sourceSlides int) {
	counts := make(map[string]int)
	for _, s := range r.doc.Slides {
		for _, el := range s.Elements {
			counts[string(el.Type)]++
		}
	}
	props := r.pkg.Properties()
	r.doc.Metadata = model.Metadata{
		SourceFormat:  "pptx",
		Title:         props.Title,
		Author:        props.Author,
		ConvertedAt:   time.Now().UTC().Format(time.RFC3339),
		Version:       r.opts.Version,
		RunID:         uuid.NewString(),
		SlideCount:    len(r.doc.Slides),
		SourceSlides:  sourceSlides,
		ElementCounts: counts,
		MediaCount:    len(r.doc.Media),
		DurationMS:    time.Since(start).Milliseconds(),
		HasMacros:     r.pkg.HasMacros(),
		Encrypted:     r.opts.Encrypted,
	}
}
