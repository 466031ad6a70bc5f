// Package model defines the target document schema produced by the
// conversion engine.
//
// This package contains the user-facing data structures that represent a
// converted presentation. Every parsing and conversion operation ultimately
// produces these types, making them the primary API for consuming results.
//
// # Document Structure
//
// The [Document] type represents a complete converted presentation:
//
//	doc.Slides    // one entry per successfully converted slide
//	doc.Theme     // resolved theme colors and fonts
//	doc.Media     // embedded media blobs keyed by reference id
//	doc.Metadata  // conversion metadata (counts, timing, flags)
//	doc.Warnings  // human-readable warnings, "CODE: message" form
//
// Each [Slide] holds a flat, z-ordered list of [Element] values. The target
// schema has no nested group container; elements that originated inside a
// source group carry the group's identifier in the GroupID field.
//
// # Elements
//
// [Element] is a single flat struct covering all element kinds. The Type
// field selects the variant; fields that do not apply to a variant are left
// at their zero value and omitted from JSON output.
//
// # Style Descriptors
//
// [Fill], [Border], and [Shadow] are fully resolved descriptors: colors are
// always literal "#RRGGBB" or "#RRGGBBAA" hex strings, never theme-slot
// references. All coordinates are pixels at 96 DPI unless a field documents
// otherwise.
package model
