package mat3

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt marks a chunk whose structure cannot be decoded.
	ErrCorrupt = errors.New("mat3: corrupt chunk")
	// ErrSignature is returned when the chunk does not start with MAT3 or MAT2.
	ErrSignature = errors.New("mat3: bad signature")
	// ErrMissingSection is returned when a section required to decode materials is absent.
	ErrMissingSection = errors.New("mat3: missing section")
)

// IndexError reports a material field whose pool index is out of range where the
// format does not allow it. It unwraps to ErrCorrupt.
type IndexError struct {
	Material string
	Field    string
	Slot     int
	Index    int
	Len      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("mat3: material %q: %s[%d] index %d out of range (pool has %d entries)",
		e.Material, e.Field, e.Slot, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrCorrupt
}

// Diagnostic is a recoverable data-quality issue. Processing continued past it.
type Diagnostic struct {
	Material string
	Field    string
	Slot     int
	Index    int
	Message  string
}

func (d Diagnostic) String() string {
	if d.Field == "" {
		return fmt.Sprintf("material %q: %s", d.Material, d.Message)
	}
	return fmt.Sprintf("material %q: %s[%d] index %d: %s", d.Material, d.Field, d.Slot, d.Index, d.Message)
}
