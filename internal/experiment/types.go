package experiment

import (
	"fmt"
	"strconv"
	"strings"
)

// Dataset identifies the corpus a trainer run uses.
type Dataset string

const (
	// DatasetChinese is the Weibo21 Chinese corpus.
	DatasetChinese Dataset = "ch"
	// DatasetEnglish is the English corpus.
	DatasetEnglish Dataset = "en"
)

// ParseDataset validates a dataset identifier.
func ParseDataset(value string) (Dataset, error) {
	switch Dataset(strings.ToLower(strings.TrimSpace(value))) {
	case DatasetChinese:
		return DatasetChinese, nil
	case DatasetEnglish:
		return DatasetEnglish, nil
	default:
		return "", fmt.Errorf("invalid dataset %q (expected ch|en)", value)
	}
}

// Spec is one (dataset, domain count, model) tuple slated for a training run.
type Spec struct {
	Dataset   Dataset
	DomainNum int
	Model     string
}

// ID renders a stable identifier used in logs and file names.
func (s Spec) ID() string {
	return s.Model + "_" + string(s.Dataset) + "_" + strconv.Itoa(s.DomainNum)
}

// String renders the experiment the way progress lines show it.
func (s Spec) String() string {
	return fmt.Sprintf("%s | %s | domain_num=%d", s.Model, s.Dataset, s.DomainNum)
}

// Validate checks the dataset, domain count and model.
func (s Spec) Validate() error {
	if _, err := ParseDataset(string(s.Dataset)); err != nil {
		return err
	}
	if s.DomainNum <= 0 {
		return fmt.Errorf("domain_num must be > 0, got %d", s.DomainNum)
	}
	if strings.TrimSpace(s.Model) == "" {
		return fmt.Errorf("model name is required")
	}
	return nil
}

// Mode selects which experiments a batch runs.
type Mode string

const (
	// ModeSingle runs one explicitly specified experiment.
	ModeSingle Mode = "single"
	// ModeAll runs the full grid.
	ModeAll Mode = "all"
	// ModeFocus runs only the focus model once per grid entry.
	ModeFocus Mode = "m3fend"
)

// ParseMode validates a mode selector.
func ParseMode(value string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ModeSingle, nil
	}
	switch Mode(normalized) {
	case ModeSingle, ModeAll, ModeFocus:
		return Mode(normalized), nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected single|all|m3fend)", value)
	}
}
