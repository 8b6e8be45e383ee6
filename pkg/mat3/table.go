// Package mat3 reads and writes the J3D material chunk (MAT3, and the older MAT2).
//
// On disk, materials are init records of pool indices. Value pools are deduplicated,
// and several named materials may share one physical record through the remap table.
// In memory, a Table holds one independent material.Material per name. Encode rebuilds
// the pools and the remap table from scratch, so a Table may be edited freely between
// Read and Encode.
package mat3

import (
	"github.com/goopsie/bmdFileTools/pkg/material"
)

// Table is the decoded material chunk.
type Table struct {
	// Materials is the exposed list, one entry per name. Entries never share state.
	Materials []*material.Material
	// RemapIndices maps each exposed material to its physical record, as last read
	// or encoded.
	RemapIndices []int
	// Legacy is set when the table was read from, or will be written as, MAT2.
	Legacy bool
	// Diagnostics collects the recoverable issues met while reading or binding textures.
	Diagnostics []Diagnostic
}

// NewTable returns a table over mats with an identity remap.
func NewTable(mats []*material.Material) *Table {
	remap := make([]int, len(mats))
	for i := range remap {
		remap[i] = i
	}
	return &Table{Materials: mats, RemapIndices: remap}
}

// Names returns the material names in exposed order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Materials))
	for i, m := range t.Materials {
		names[i] = m.Name
	}
	return names
}

// Find returns the index of the material named name, or -1.
func (t *Table) Find(name string) int {
	for i, m := range t.Materials {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// PhysicalCount returns the number of distinct records the materials need.
func (t *Table) PhysicalCount() int {
	unique, _ := dedup(t.Materials)
	return len(unique)
}
