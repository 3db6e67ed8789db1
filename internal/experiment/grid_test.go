package experiment

import "testing"

// TestPaperGridSize verifies the reproduction grid covers 44 runs.
func TestPaperGridSize(t *testing.T) {
	grid := PaperGrid()
	if grid.Size() != 44 {
		t.Fatalf("expected 44 experiments, got %d", grid.Size())
	}
	if len(grid.Expand()) != grid.Size() {
		t.Fatalf("expand size mismatch")
	}
}

// TestExpandPreservesOrder verifies entry-then-model ordering.
func TestExpandPreservesOrder(t *testing.T) {
	grid := Grid{
		{Dataset: DatasetChinese, DomainNum: 3, Models: []string{ModelM3FEND, ModelMDFEND}},
		{Dataset: DatasetEnglish, DomainNum: 3, Models: []string{ModelBERT}},
	}
	specs := grid.Expand()
	want := []Spec{
		{Dataset: DatasetChinese, DomainNum: 3, Model: ModelM3FEND},
		{Dataset: DatasetChinese, DomainNum: 3, Model: ModelMDFEND},
		{Dataset: DatasetEnglish, DomainNum: 3, Model: ModelBERT},
	}
	if len(specs) != len(want) {
		t.Fatalf("expected %d specs, got %d", len(want), len(specs))
	}
	for i := range want {
		if specs[i] != want[i] {
			t.Fatalf("spec %d: expected %+v, got %+v", i, want[i], specs[i])
		}
	}
}

// TestFocusDeduplicatesEntries verifies focus mode runs once per entry.
func TestFocusDeduplicatesEntries(t *testing.T) {
	grid := PaperGrid()
	grid = append(grid, GridEntry{Dataset: DatasetChinese, DomainNum: 3, Models: []string{ModelBERT}})
	specs := grid.Focus(ModelM3FEND)
	if len(specs) != 4 {
		t.Fatalf("expected 4 focus specs, got %d", len(specs))
	}
	wantDomains := []int{3, 6, 9, 3}
	for i, spec := range specs {
		if spec.Model != ModelM3FEND {
			t.Fatalf("spec %d: unexpected model %s", i, spec.Model)
		}
		if spec.DomainNum != wantDomains[i] {
			t.Fatalf("spec %d: expected domain %d, got %d", i, wantDomains[i], spec.DomainNum)
		}
	}
	if specs[3].Dataset != DatasetEnglish {
		t.Fatalf("expected last focus spec on en, got %s", specs[3].Dataset)
	}
}
