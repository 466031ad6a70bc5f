// Package deckjson provides a fluent API for converting presentation
// packages (.pptx) into a flattened, self-contained JSON document.
//
// Basic usage:
//
//	doc, warnings, err := deckjson.Open("talk.pptx").Convert()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", deckjson.FormatWarnings(warnings))
//	}
//
// With options:
//
//	data, _, err := deckjson.Open("talk.pptx").
//	    IncludeNotes().
//	    WithMemoryLimit(256 << 20).
//	    JSON()
//
// For advanced use cases, the lower-level container and convert packages
// are also available.
package deckjson

import (
	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/model"
)

// Warning is a non-fatal finding reported during conversion.
type Warning = model.Warning

// HandlerFunc is the task-queue-facing signature: one queued job's package
// bytes in, one converted document out. Warnings are already folded into
// the document's warnings array.
type HandlerFunc func(input []byte) (*model.Document, error)

// Open opens a presentation package file and returns a Converter for
// fluent configuration. The file is read when a terminal operation such
// as Convert or JSON runs.
//
// Example:
//
//	doc, warnings, err := deckjson.Open("talk.pptx").Convert()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultConvertOptions(),
	}
}

// FromBytes creates a Converter over an in-memory package.
//
// Example:
//
//	doc, _, err := deckjson.FromBytes(blob).Convert()
func FromBytes(data []byte) *Converter {
	return &Converter{
		data:    data,
		options: defaultConvertOptions(),
	}
}

// FromPackage creates a Converter from an already-opened container.Package.
// This is useful when the same package feeds several conversion runs.
func FromPackage(pkg *container.Package) *Converter {
	return &Converter{
		pkg:     pkg,
		options: defaultConvertOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustConvert is a helper that wraps a call to Convert() or JSON() and
// panics if the error is non-nil. It discards warnings and returns just
// the value.
//
// Example:
//
//	doc := deckjson.MustConvert(deckjson.Open("talk.pptx").Convert())
func MustConvert[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings renders warnings one per line for logging.
func FormatWarnings(warnings []Warning) string {
	return model.FormatWarnings(warnings)
}
