package config

import (
	"fmt"

	"m3run/internal/experiment"
	"m3run/internal/spec"
)

// validateGrid checks grid entries and, for strict tables, model names.
func validateGrid(grid []spec.GridEntry, strict bool, known func(string) bool, add issueAdder) {
	if len(grid) == 0 {
		add("grid", "at least one entry is required")
	}
	for i, entry := range grid {
		fieldPrefix := fmt.Sprintf("grid[%d]", i)
		if _, err := experiment.ParseDataset(entry.Dataset); err != nil {
			add(fieldPrefix+".dataset", err.Error())
		}
		if entry.DomainNum <= 0 {
			add(fieldPrefix+".domain_num", "must be > 0")
		}
		if len(entry.Models) == 0 {
			add(fieldPrefix+".models", "must include at least one entry")
		}
		seen := map[string]struct{}{}
		for modelIndex, model := range entry.Models {
			field := fmt.Sprintf("%s.models[%d]", fieldPrefix, modelIndex)
			if model == "" {
				add(field, "is required")
				continue
			}
			if _, dup := seen[model]; dup {
				add(field, fmt.Sprintf("duplicate model %q", model))
				continue
			}
			seen[model] = struct{}{}
			if strict && !known(model) {
				add(field, fmt.Sprintf("unknown model %q", model))
			}
		}
	}
}
