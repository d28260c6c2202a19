package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Workbook  WorkbookConfig  `yaml:"workbook" mapstructure:"workbook"`
	Household HouseholdConfig `yaml:"household" mapstructure:"household"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// PathsConfig locates the pipeline's inputs and outputs.
type PathsConfig struct {
	ExcelDir        string `yaml:"excel_dir" mapstructure:"excel_dir"`
	CSVDir          string `yaml:"csv_dir" mapstructure:"csv_dir"`
	CleanedDir      string `yaml:"cleaned_dir" mapstructure:"cleaned_dir"`
	ComparisonDir   string `yaml:"comparison_dir" mapstructure:"comparison_dir"`
	IndicatorDir    string `yaml:"indicator_dir" mapstructure:"indicator_dir"`
	IndexFile       string `yaml:"index_file" mapstructure:"index_file"`
	MatrixFile      string `yaml:"matrix_file" mapstructure:"matrix_file"`
	MetadataDir     string `yaml:"metadata_dir" mapstructure:"metadata_dir"`
	ComparisonsFile string `yaml:"comparisons_file" mapstructure:"comparisons_file"`
}

// WorkbookConfig configures how yearly workbooks are read.
type WorkbookConfig struct {
	Engine             string `yaml:"engine" mapstructure:"engine"`
	ContentsSheet      string `yaml:"contents_sheet" mapstructure:"contents_sheet"`
	ContentsHeaderRows int    `yaml:"contents_header_rows" mapstructure:"contents_header_rows"`
}

// HouseholdConfig selects the household weights source.
type HouseholdConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
	Table  string `yaml:"table" mapstructure:"table"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("paths.excel_dir", "Data/Excel_Files")
	v.SetDefault("paths.csv_dir", "Data/CSV_Files")
	v.SetDefault("paths.cleaned_dir", "Data/Cleaned_Tables")
	v.SetDefault("paths.comparison_dir", "Data/Comparison_Tables")
	v.SetDefault("paths.indicator_dir", "Data/Indicators")
	v.SetDefault("paths.index_file", "Data/index.csv")
	v.SetDefault("paths.matrix_file", "Data/available_tables.csv")
	v.SetDefault("paths.metadata_dir", "metadata")
	v.SetDefault("paths.comparisons_file", "comparisons.yaml")
	v.SetDefault("workbook.engine", "xlsx")
	v.SetDefault("workbook.contents_sheet", "فهرست جداول")
	v.SetDefault("workbook.contents_header_rows", 1)
	v.SetDefault("household.driver", "csv")
	v.SetDefault("household.path", "Data/Indicators/households.csv")
	v.SetDefault("household.table", "households")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is the command name.
func (c *Config) Validate(mode string) error {
	var errs []string
	require := func(v, key string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, key+" is required")
		}
	}

	workbook := func() {
		require(c.Paths.ExcelDir, "paths.excel_dir")
		switch strings.ToLower(c.Workbook.Engine) {
		case "xlsx", "excelize":
		default:
			errs = append(errs, "workbook.engine must be xlsx or excelize")
		}
		if c.Workbook.ContentsHeaderRows < 0 {
			errs = append(errs, "workbook.contents_header_rows must be >= 0")
		}
	}
	households := func() {
		require(c.Household.Path, "household.path")
		switch strings.ToLower(c.Household.Driver) {
		case "csv":
		case "sqlite":
			require(c.Household.Table, "household.table")
		default:
			errs = append(errs, "household.driver must be csv or sqlite")
		}
	}

	switch mode {
	case "index":
		workbook()
		require(c.Workbook.ContentsSheet, "workbook.contents_sheet")
		require(c.Paths.IndexFile, "paths.index_file")
		require(c.Paths.MatrixFile, "paths.matrix_file")
	case "extract":
		workbook()
		require(c.Paths.IndexFile, "paths.index_file")
		require(c.Paths.CSVDir, "paths.csv_dir")
	case "standardize":
		workbook()
		require(c.Paths.IndexFile, "paths.index_file")
		require(c.Paths.MetadataDir, "paths.metadata_dir")
		require(c.Paths.CleanedDir, "paths.cleaned_dir")
	case "compare":
		households()
		require(c.Paths.ComparisonsFile, "paths.comparisons_file")
		require(c.Paths.CleanedDir, "paths.cleaned_dir")
		require(c.Paths.ComparisonDir, "paths.comparison_dir")
	case "summary":
		require(c.Paths.ComparisonsFile, "paths.comparisons_file")
		require(c.Paths.ComparisonDir, "paths.comparison_dir")
	case "run":
		for _, m := range []string{"index", "extract", "standardize", "compare"} {
			if err := c.Validate(m); err != nil {
				return err
			}
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
