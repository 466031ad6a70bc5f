package deckjson

import (
	"context"
	"fmt"

	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/convert"
	"github.com/tsawler/deckjson/model"
)

// Converter provides a fluent interface for converting a presentation
// package into the JSON document model. Each configuration method returns
// a new Converter instance, making it safe for concurrent use and allowing
// method chaining.
type Converter struct {
	// Source (exactly one is used)
	filename string
	data     []byte
	pkg      *container.Package

	// Configuration
	options ConvertOptions
	ctx     context.Context

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability; each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		data:     c.data,
		pkg:      c.pkg,
		options:  c.options.clone(),
		ctx:      c.ctx,
		err:      c.err,
	}
}

// ensurePackage opens the package if not already open.
func (c *Converter) ensurePackage() error {
	if c.pkg != nil {
		return nil
	}
	if c.data != nil {
		pkg, err := container.FromBytes(c.data)
		if err != nil {
			return err
		}
		c.pkg = pkg
		return nil
	}
	if c.filename == "" {
		return fmt.Errorf("no package specified")
	}
	pkg, err := container.Open(c.filename)
	if err != nil {
		return err
	}
	c.pkg = pkg
	return nil
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Slides specifies which slides to convert (1-indexed, presentation
// order). Multiple calls are cumulative.
//
// Example:
//
//	doc, _, err := deckjson.Open("talk.pptx").Slides(1, 3, 5).Convert()
func (c *Converter) Slides(slides ...int) *Converter {
	newConv := c.clone()
	newConv.options.slides = append(newConv.options.slides, slides...)
	return newConv
}

// SlideRange specifies a range of slides to convert (1-indexed, inclusive).
//
// Example:
//
//	doc, _, err := deckjson.Open("talk.pptx").SlideRange(5, 10).Convert()
func (c *Converter) SlideRange(start, end int) *Converter {
	newConv := c.clone()
	for i := start; i <= end; i++ {
		newConv.options.slides = append(newConv.options.slides, i)
	}
	return newConv
}

// IncludeNotes configures the converter to carry speaker notes into the
// output document.
//
// Example:
//
//	doc, _, err := deckjson.Open("talk.pptx").IncludeNotes().Convert()
func (c *Converter) IncludeNotes() *Converter {
	newConv := c.clone()
	newConv.options.includeNotes = true
	return newConv
}

// IncludeTransitions configures the converter to carry slide transition
// descriptors into the output document.
func (c *Converter) IncludeTransitions() *Converter {
	newConv := c.clone()
	newConv.options.includeTransitions = true
	return newConv
}

// WithoutMedia disables base64 inlining of media blobs. Media references
// and metadata are still emitted.
//
// Example:
//
//	doc, _, err := deckjson.Open("talk.pptx").WithoutMedia().Convert()
func (c *Converter) WithoutMedia() *Converter {
	newConv := c.clone()
	newConv.options.inlineMedia = false
	return newConv
}

// WithMediaResolver overrides package-backed media lookup. The resolver
// receives the relationship id of the referencing element.
func (c *Converter) WithMediaResolver(resolver convert.MediaResolver) *Converter {
	newConv := c.clone()
	newConv.options.mediaResolver = resolver
	return newConv
}

// WithDowngradeStrategy sets how one unsupported construct kind
// ("smartart", "oleobject", "model3d", "shape3d", "activex", "ink") is
// rewritten. Unset kinds keep the built-in handling.
//
// Example:
//
//	doc, _, err := deckjson.Open("talk.pptx").
//	    WithDowngradeStrategy("smartart", deckjson.StrategyToImage).
//	    Convert()
func (c *Converter) WithDowngradeStrategy(construct string, strategy Strategy) *Converter {
	newConv := c.clone()
	if newConv.options.policy == nil {
		newConv.options.policy = convert.DefaultPolicy()
	}
	newConv.options.policy[construct] = strategy
	return newConv
}

// WithMemoryLimit sets the soft memory ceiling in bytes. Pressure bands
// scale against it; crossing the top band aborts the run with a
// ResourceExhaustionError.
func (c *Converter) WithMemoryLimit(bytes uint64) *Converter {
	newConv := c.clone()
	newConv.options.thresholds.SoftLimit = bytes
	return newConv
}

// WithHardMemoryLimit sets an absolute byte ceiling. Any sample at or
// above it aborts the run regardless of the soft-limit bands.
func (c *Converter) WithHardMemoryLimit(bytes uint64) *Converter {
	newConv := c.clone()
	newConv.options.thresholds.HardLimit = bytes
	return newConv
}

// WithMemorySampler overrides the heap usage probe. Intended for tests.
func (c *Converter) WithMemorySampler(sampler convert.MemorySampler) *Converter {
	newConv := c.clone()
	newConv.options.sampler = sampler
	return newConv
}

// WithConverter registers a custom element converter. Custom converters
// are scanned in priority order before the built-in per-type lookup.
func (c *Converter) WithConverter(conv convert.Converter) *Converter {
	newConv := c.clone()
	newConv.options.custom = append(newConv.options.custom, conv)
	return newConv
}

// WithContext attaches a context checked at slide boundaries. Cancellation
// stops the run before the next slide.
func (c *Converter) WithContext(ctx context.Context) *Converter {
	newConv := c.clone()
	newConv.ctx = ctx
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Convert runs the conversion and returns the document model, any warnings
// accumulated, and an error if conversion failed. Warnings indicate
// non-fatal issues such as skipped slides or downgraded elements.
//
// Example:
//
//	doc, warnings, err := deckjson.Open("talk.pptx").Convert()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", deckjson.FormatWarnings(warnings))
//	}
func (c *Converter) Convert() (*model.Document, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}
	if err := c.ensurePackage(); err != nil {
		return nil, nil, err
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var registry *convert.Registry
	if len(c.options.custom) > 0 {
		registry = convert.NewRegistry()
		for _, cv := range c.options.custom {
			registry.RegisterCustom(cv)
		}
	}

	return convert.Run(ctx, c.pkg, convert.Options{
		Slides:             c.options.slides,
		IncludeNotes:       c.options.includeNotes,
		IncludeTransitions: c.options.includeTransitions,
		InlineMedia:        c.options.inlineMedia,
		Resolver:           c.options.mediaResolver,
		Registry:           registry,
		Policy:             c.options.policy,
		Thresholds:         c.options.thresholds,
		Sampler:            c.options.sampler,
		Version:            Version,
	})
}

// JSON runs the conversion and serializes the document. Key order is
// deterministic, so identical inputs yield identical bytes.
//
// Example:
//
//	data, _, err := deckjson.Open("talk.pptx").JSON()
func (c *Converter) JSON() ([]byte, []Warning, error) {
	doc, warnings, err := c.Convert()
	if err != nil {
		return nil, warnings, err
	}
	data, err := convert.Marshal(doc)
	return data, warnings, err
}

// Handler returns a HandlerFunc that applies this converter's
// configuration to each job's package bytes. The same Converter can back
// many jobs; every call runs on a fresh clone.
//
// Example:
//
//	handler := deckjson.FromBytes(nil).IncludeNotes().Handler()
//	queue.Register("convert-deck", handler)
func (c *Converter) Handler() HandlerFunc {
	return func(input []byte) (*model.Document, error) {
		job := c.clone()
		job.filename = ""
		job.data = input
		job.pkg = nil
		doc, _, err := job.Convert()
		return doc, err
	}
}

// JSONIndent is JSON with two-space indentation, for human inspection.
func (c *Converter) JSONIndent() ([]byte, []Warning, error) {
	doc, warnings, err := c.Convert()
	if err != nil {
		return nil, warnings, err
	}
	data, err := convert.MarshalIndent(doc)
	return data, warnings, err
}
