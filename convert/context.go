package convert

import (
	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/model"
)

// MediaResolver resolves a media reference to a blob. The orchestrator
// supplies a package-backed default; callers may override it to serve
// media from elsewhere.
type MediaResolver func(ref string) (container.Media, bool)

// Context carries the per-call collaborators a converter may use. It is
// read-only for converters; all accumulation happens through the callbacks.
type Context struct {
	// ResolveMedia maps an element's media relationship id to its key in
	// the output document's media table, registering the blob on first
	// use. The second return is false when the reference does not
	// resolve.
	ResolveMedia func(relID string) (string, bool)

	// Warn records a non-fatal finding.
	Warn func(model.Warning)
}
