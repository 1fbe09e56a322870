// Package store defines the persistence ports used by the visualizer.
package store

import "go.ngs.io/emwave-api/internal/domain"

// MaterialLoader loads dielectric media from a catalogue.
type MaterialLoader interface {
	// LoadMaterials returns every medium in the catalogue.
	LoadMaterials() ([]domain.Medium, error)
}

// FieldMeta describes a field grid written to disk.
type FieldMeta struct {
	Variable   string // Data variable name, e.g. "e_field".
	LongName   string // Human-readable description.
	Units      string // Units of the data variable.
	Phenomenon string // Source phenomenon.
	Frequency  float64

	// Sample range, filled by readers from valid_min/valid_max.
	ValidMin, ValidMax float64
}

// FieldWriter persists a sampled field grid.
type FieldWriter interface {
	WriteGrid(path string, grid domain.Grid, meta FieldMeta) error
}
