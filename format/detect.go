// Package format provides container signature detection for the deckjson
// conversion engine.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a detected container format.
type Format int

const (
	// Unknown indicates an unrecognized container.
	Unknown Format = iota
	// ZipPackage indicates a ZIP-based OOXML package (.pptx and friends).
	ZipPackage
	// EmptyArchive indicates a ZIP end-of-central-directory record with no
	// local entries (a structurally empty archive).
	EmptyArchive
	// CompoundFile indicates an OLE compound file (legacy binary .ppt).
	CompoundFile
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case ZipPackage:
		return "ZipPackage"
	case EmptyArchive:
		return "EmptyArchive"
	case CompoundFile:
		return "CompoundFile"
	default:
		return "Unknown"
	}
}

var (
	zipMagic      = []byte{0x50, 0x4B, 0x03, 0x04} // PK\x03\x04
	zipEmptyMagic = []byte{0x50, 0x4B, 0x05, 0x06} // PK\x05\x06
	oleMagic      = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect determines the container format from magic bytes. It never trusts
// the filename; use HasPackageExtension for the advisory extension check.
func Detect(data []byte) Format {
	if len(data) >= 8 && bytes.HasPrefix(data, oleMagic) {
		return CompoundFile
	}
	if len(data) < 4 {
		return Unknown
	}
	if bytes.HasPrefix(data, zipMagic) {
		return ZipPackage
	}
	if bytes.HasPrefix(data, zipEmptyMagic) {
		return EmptyArchive
	}
	return Unknown
}

// HasPackageExtension reports whether the filename carries a presentation
// package extension. Advisory only; Detect is authoritative.
func HasPackageExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pptx", ".ppsx", ".potx":
		return true
	}
	return false
}
