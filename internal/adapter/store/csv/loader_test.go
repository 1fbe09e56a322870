package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseMaterials(t *testing.T) {
	data := `name,relative_permittivity,relative_permeability,conductivity
# Low-loss microwave substrates.
PTFE, 2.1, 1.0, 0
Silicon, 11.68, 1.0, 1e-3
`
	media, err := ParseMaterials(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseMaterials: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(media))
	}
	if media[0].Name != "PTFE" || media[0].RelativePermittivity != 2.1 {
		t.Errorf("unexpected first material %+v", media[0])
	}
	if media[1].Conductivity != 1e-3 {
		t.Errorf("conductivity: expected 1e-3, got %g", media[1].Conductivity)
	}
}

func TestParseMaterials_Errors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"bad header", "material,eps,mu,sigma\nA,1,1,0\n"},
		{"short header", "name,relative_permittivity\nA,1\n"},
		{"bad number", "name,relative_permittivity,relative_permeability,conductivity\nA,x,1,0\n"},
		{"non-physical", "name,relative_permittivity,relative_permeability,conductivity\nA,-2,1,0\n"},
		{"duplicate", "name,relative_permittivity,relative_permeability,conductivity\nA,2,1,0\na,3,1,0\n"},
		{"empty", "name,relative_permittivity,relative_permeability,conductivity\n"},
		{"wrong column count", "name,relative_permittivity,relative_permeability,conductivity\nA,2,1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseMaterials(strings.NewReader(tc.data)); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestParseMaterials_ErrorLineSkipsComments(t *testing.T) {
	data := `name,relative_permittivity,relative_permeability,conductivity
# Substrates
# (values at 10 GHz)
PTFE, 2.1, 1.0, 0
, 4.4, 1.0, 0
`
	_, err := ParseMaterials(strings.NewReader(data))
	if err == nil || !strings.Contains(err.Error(), "line 5") {
		t.Fatalf("expected error on line 5, got %v", err)
	}

	data = "name,relative_permittivity,relative_permeability,conductivity\n# FR-4\nFR4, 4.x, 1, 0\n"
	_, err = ParseMaterials(strings.NewReader(data))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected error on line 3, got %v", err)
	}
}

func TestMaterialStore_LoadMaterials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.csv")
	content := "name,relative_permittivity,relative_permeability,conductivity\nAlumina,9.8,1,0\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	media, err := NewMaterialStore(path).LoadMaterials()
	if err != nil {
		t.Fatalf("LoadMaterials: %v", err)
	}
	if len(media) != 1 || media[0].Name != "Alumina" {
		t.Errorf("unexpected materials %+v", media)
	}

	if _, err := NewMaterialStore(filepath.Join(dir, "missing.csv")).LoadMaterials(); err == nil {
		t.Error("expected error for missing file")
	}
}
