package deckjson

import (
	"github.com/tsawler/deckjson/container"
	"github.com/tsawler/deckjson/convert"
)

// Version is stamped into the metadata of every converted document.
const Version = "1.0.0"

// FileFormatError reports input that is not a readable package: wrong
// magic bytes, a corrupt archive, or a legacy binary presentation.
type FileFormatError = container.FileFormatError

// StructuralError reports a package that opened but is missing required
// parts, or a run in which no slide could be converted.
type StructuralError = container.StructuralError

// ResourceExhaustionError reports a run aborted under critical memory
// pressure. No partial document accompanies it.
type ResourceExhaustionError = convert.ResourceExhaustionError

// Strategy selects how an unsupported construct is downgraded. See
// WithDowngradeStrategy.
type Strategy = convert.Strategy

const (
	StrategyIgnore         = convert.StrategyIgnore
	StrategyPlaceholder    = convert.StrategyPlaceholder
	StrategyToImage        = convert.StrategyToImage
	StrategyTextAnnotation = convert.StrategyTextAnnotation
	StrategyWarnOnly       = convert.StrategyWarnOnly
)
