package experiment

// GridEntry groups the models run for one dataset and domain count.
type GridEntry struct {
	Dataset   Dataset
	DomainNum int
	Models    []string
}

// Grid is the ordered experiment table of a batch.
type Grid []GridEntry

// PaperModels lists the models in the order the paper's tables report them.
func PaperModels() []string {
	return []string{
		ModelM3FEND,
		ModelMDFEND,
		ModelEANN,
		ModelEDDFN,
		ModelBERT,
		ModelBiGRU,
		ModelTextCNN,
		ModelDualEmotion,
		ModelStyleLSTM,
		ModelMMoE,
		ModelMoSE,
	}
}

// PaperGrid returns the full reproduction grid.
func PaperGrid() Grid {
	return Grid{
		{Dataset: DatasetChinese, DomainNum: 3, Models: PaperModels()},
		{Dataset: DatasetChinese, DomainNum: 6, Models: PaperModels()},
		{Dataset: DatasetChinese, DomainNum: 9, Models: PaperModels()},
		{Dataset: DatasetEnglish, DomainNum: 3, Models: PaperModels()},
	}
}

// Expand flattens the grid into specs, preserving entry then model order.
func (g Grid) Expand() []Spec {
	specs := make([]Spec, 0, g.Size())
	for _, entry := range g {
		for _, model := range entry.Models {
			specs = append(specs, Spec{Dataset: entry.Dataset, DomainNum: entry.DomainNum, Model: model})
		}
	}
	return specs
}

// Focus returns one spec per distinct (dataset, domain count) entry for model.
func (g Grid) Focus(model string) []Spec {
	type key struct {
		dataset   Dataset
		domainNum int
	}
	seen := make(map[key]struct{}, len(g))
	specs := make([]Spec, 0, len(g))
	for _, entry := range g {
		k := key{dataset: entry.Dataset, domainNum: entry.DomainNum}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		specs = append(specs, Spec{Dataset: entry.Dataset, DomainNum: entry.DomainNum, Model: model})
	}
	return specs
}

// Size counts the specs Expand would produce.
func (g Grid) Size() int {
	total := 0
	for _, entry := range g {
		total += len(entry.Models)
	}
	return total
}
