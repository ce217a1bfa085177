package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Profile     string  `json:"profile" yaml:"profile" toml:"profile"`
	Listen      string  `json:"listen" yaml:"listen" toml:"listen"`
	Dir         string  `json:"dir" yaml:"dir" toml:"dir"`
	Threshold   float64 `json:"threshold" yaml:"threshold" toml:"threshold"`
	OthersLabel string  `json:"others_label" yaml:"others_label" toml:"others_label"`
	ChartWidth  int     `json:"chart_width" yaml:"chart_width" toml:"chart_width"`
	ChartHeight int     `json:"chart_height" yaml:"chart_height" toml:"chart_height"`
	ShowBudgets bool    `json:"show_budgets" yaml:"show_budgets" toml:"show_budgets"`
}

// Settings is the resolved runtime configuration: defaults, then config file, then flags.
type Settings struct {
	Profile     string
	Listen      string
	Dir         string
	Threshold   float64
	OthersLabel string
	ChartWidth  int
	ChartHeight int
	ShowBudgets bool
}

const (
	DefaultListen      = "127.0.0.1:8050"
	DefaultThreshold   = 0.01
	DefaultOthersLabel = "Others"
	DefaultChartWidth  = 1200
	DefaultChartHeight = 800
)

// DefaultSettings returns the settings used when neither a config file nor flags say otherwise.
func DefaultSettings() Settings {
	return Settings{
		Listen:      DefaultListen,
		Threshold:   DefaultThreshold,
		OthersLabel: DefaultOthersLabel,
		ChartWidth:  DefaultChartWidth,
		ChartHeight: DefaultChartHeight,
	}
}

// Merge overlays the non-zero values of a config file onto the settings.
func (s Settings) Merge(cfg *Config) Settings {
	if cfg == nil {
		return s
	}
	if cfg.Profile != "" {
		s.Profile = cfg.Profile
	}
	if cfg.Listen != "" {
		s.Listen = cfg.Listen
	}
	if cfg.Dir != "" {
		s.Dir = cfg.Dir
	}
	if cfg.Threshold != 0 {
		s.Threshold = cfg.Threshold
	}
	if cfg.OthersLabel != "" {
		s.OthersLabel = cfg.OthersLabel
	}
	if cfg.ChartWidth != 0 {
		s.ChartWidth = cfg.ChartWidth
	}
	if cfg.ChartHeight != 0 {
		s.ChartHeight = cfg.ChartHeight
	}
	if cfg.ShowBudgets {
		s.ShowBudgets = true
	}
	return s
}

// Validate checks the settings for values the aggregator and presenter cannot work with.
func (s Settings) Validate() error {
	if s.Threshold < 0 || s.Threshold >= 1 {
		return ErrInvalidThreshold
	}
	if s.ChartWidth <= 0 || s.ChartHeight <= 0 {
		return ErrInvalidChartSize
	}
	if s.OthersLabel == "" {
		return ErrEmptyOthersLabel
	}
	return nil
}
