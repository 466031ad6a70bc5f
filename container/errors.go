package container

import (
	"fmt"
	"strings"
)

// FileFormatError indicates the input bytes are not a readable package
// container (bad archive signature or corrupt structure). Fatal.
type FileFormatError struct {
	Reason string
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("invalid package format: %s", e.Reason)
}

// StructuralError indicates the container opened but required parts are
// missing. Fatal.
type StructuralError struct {
	Missing []string
	Reason  string
}

func (e *StructuralError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("package structure invalid: missing required parts: %s",
			strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("package structure invalid: %s", e.Reason)
}
