// Package convert turns parsed slide elements into the flattened output
// document: converter registry, downgrade handling, memory-pressure
// degradation, orchestration, and serialization.
package convert

import "math"

const (
	emuPerPixel = 9525 // 96 DPI
	pxPerPoint  = 96.0 / 72.0
	degPerUnit  = 60000 // rotation units per degree
)

// EmuToPx converts an EMU length to pixels at 96 DPI.
func EmuToPx(v int64) float64 {
	return round2(float64(v) / emuPerPixel)
}

// PtToPx converts a point size to pixels.
func PtToPx(pt float64) float64 {
	return round2(pt * pxPerPoint)
}

// RotToDeg converts a 1/60000 degree rotation to degrees.
func RotToDeg(v int64) float64 {
	return round2(float64(v) / degPerUnit)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
