// Package csv provides CSV-based material catalogue loading.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.ngs.io/emwave-api/internal/domain"
)

var expectedHeaders = []string{"name", "relative_permittivity", "relative_permeability", "conductivity"}

// MaterialStore reads a material catalogue from a CSV file with columns
// name, relative_permittivity, relative_permeability, conductivity.
type MaterialStore struct {
	path string
}

// NewMaterialStore creates a CSV-based material store.
func NewMaterialStore(path string) *MaterialStore {
	return &MaterialStore{path: path}
}

// LoadMaterials reads and validates every row of the catalogue.
func (s *MaterialStore) LoadMaterials() ([]domain.Medium, error) {
	//nolint:gosec // G304: path comes from configuration.
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open material catalogue: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseMaterials(file)
}

// ParseMaterials parses catalogue rows from r.
func ParseMaterials(r io.Reader) ([]domain.Medium, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid CSV header: expected %v, got %v", expectedHeaders, header)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s", i, expectedHeaders[i], h)
		}
	}

	media := make([]domain.Medium, 0)
	seen := make(map[string]bool)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		line, _ := reader.FieldPos(0)

		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("material on line %d has no name", line)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate material: %s", name)
		}
		seen[key] = true

		values := make([]float64, 3)
		for i := range values {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s for material %s: %w", line, expectedHeaders[i+1], name, err)
			}
			values[i] = v
		}

		m := domain.Medium{
			Name:                 name,
			RelativePermittivity: values[0],
			RelativePermeability: values[1],
			Conductivity:         values[2],
		}
		if !m.Valid() {
			return nil, fmt.Errorf("material %s has non-physical constants", name)
		}
		media = append(media, m)
	}

	if len(media) == 0 {
		return nil, fmt.Errorf("no materials found in CSV")
	}
	return media, nil
}
