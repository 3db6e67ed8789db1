package spec

// Config is the on-disk driver configuration.
type Config struct {
	Version       int               `yaml:"version"`
	Trainer       TrainerConfig     `yaml:"trainer"`
	Output        OutputConfig      `yaml:"output"`
	LearningRates LearningRateTable `yaml:"learning_rates"`
	FocusModel    string            `yaml:"focus_model"`
	Grid          []GridEntry       `yaml:"grid"`
}

// TrainerConfig describes how the external trainer is launched.
type TrainerConfig struct {
	Command        []string          `yaml:"command"`
	WorkDir        string            `yaml:"workdir"`
	Env            map[string]string `yaml:"env,omitempty"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	SummaryPath  string `yaml:"summary_path"`
	LogsDir      string `yaml:"logs_dir,omitempty"`
	FlushEachRun *bool  `yaml:"flush_each_run,omitempty"`
}

// LearningRateTable maps model names to learning rates.
type LearningRateTable struct {
	Default float64            `yaml:"default"`
	Strict  bool               `yaml:"strict"`
	Models  map[string]float64 `yaml:"models"`
}

// GridEntry lists the models run for one dataset and domain count.
type GridEntry struct {
	Dataset   string   `yaml:"dataset"`
	DomainNum int      `yaml:"domain_num"`
	Models    []string `yaml:"models"`
}
