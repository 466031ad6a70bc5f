package deckjson

import (
	"github.com/tsawler/deckjson/convert"
)

// ConvertOptions holds configuration for a conversion run.
type ConvertOptions struct {
	// Content selection
	slides             []int // 1-indexed, nil means all slides
	includeNotes       bool
	includeTransitions bool
	inlineMedia        bool

	// Media lookup override
	mediaResolver convert.MediaResolver

	// Unsupported-construct handling, keyed by construct kind
	policy convert.DowngradePolicy

	// Memory pressure limits
	thresholds convert.Thresholds
	sampler    convert.MemorySampler

	// Extra converters scanned before the built-in per-type lookup
	custom []convert.Converter
}

// defaultConvertOptions returns the default conversion options.
func defaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		includeNotes:       false,
		includeTransitions: false,
		inlineMedia:        true,
		policy:             nil, // nil means the built-in policy
		thresholds:         convert.DefaultThresholds(),
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := ConvertOptions{
		includeNotes:       o.includeNotes,
		includeTransitions: o.includeTransitions,
		inlineMedia:        o.inlineMedia,
		mediaResolver:      o.mediaResolver,
		thresholds:         o.thresholds,
		sampler:            o.sampler,
	}
	if o.slides != nil {
		newOpts.slides = make([]int, len(o.slides))
		copy(newOpts.slides, o.slides)
	}
	if o.policy != nil {
		newOpts.policy = make(convert.DowngradePolicy, len(o.policy))
		for k, v := range o.policy {
			newOpts.policy[k] = v
		}
	}
	if o.custom != nil {
		newOpts.custom = make([]convert.Converter, len(o.custom))
		copy(newOpts.custom, o.custom)
	}
	return newOpts
}
