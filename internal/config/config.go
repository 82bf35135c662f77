// =============================================================================
// Store Order Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// SOURCES (later sources win):
//   1. Built-in defaults (applyDefaults)
//   2. The YAML file (config.yaml by default)
//   3. Environment variables prefixed with STOREORDERS_, for example
//      STOREORDERS_INPUT_BOUNDARY_LABEL or STOREORDERS_SUMMARY_TOP_N
//
// The file is optional unless the user names one explicitly. Every loaded
// configuration is validated before it is returned.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "STOREORDERS"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Summary SummaryConfig `yaml:"summary" envconfig:"SUMMARY"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig controls how the order matrix is read.
type InputConfig struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`

	// ProductCodeLabel is the header of the product code column.
	// Default: "Hmk Kod"
	ProductCodeLabel string `yaml:"product_code_label" envconfig:"PRODUCT_CODE_LABEL" validate:"required"`

	// DescriptionLabel is the header of the product description column.
	// The column itself is optional in the input.
	// Default: "Hmk Ürün Açıklama"
	DescriptionLabel string `yaml:"description_label" envconfig:"DESCRIPTION_LABEL"`

	// BoundaryLabel is the header that closes the run of store columns.
	// Default: "TOPLAM"
	BoundaryLabel string `yaml:"boundary_label" envconfig:"BOUNDARY_LABEL" validate:"required"`

	// CSVDelimiter is the field separator for CSV inputs.
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter" envconfig:"CSV_DELIMITER" validate:"required,len=1"`

	// CSVEncoding is the character encoding of CSV inputs.
	// Valid values: "utf-8", "windows-1254", "iso-8859-9"
	// Default: "utf-8"
	CSVEncoding string `yaml:"csv_encoding" envconfig:"CSV_ENCODING" validate:"oneof=utf-8 windows-1254 iso-8859-9"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// Dir is the directory the output workbook is written to.
	// Default: "./output"
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`

	// FileNameFormat is the output file name pattern.
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {timestamp} - Current time (YYYYMMDD_HHMM)
	//   {date}      - Current date (YYYYMMDD)
	//   {uuid}      - A random UUID
	// Default: "{original}_donusturulmus_{timestamp}.xlsx"
	FileNameFormat string `yaml:"file_name_format" envconfig:"FILE_NAME_FORMAT" validate:"required"`

	// SQLitePath, when set, also writes the four tables to a SQLite file.
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`

	// ArchiveInput moves the input file to ArchiveDir after a successful run.
	// Default: false
	ArchiveInput bool `yaml:"archive_input" envconfig:"ARCHIVE_INPUT"`

	// ArchiveDir is the archive location used when ArchiveInput is set.
	// Default: "./input_archive"
	ArchiveDir string `yaml:"archive_dir" envconfig:"ARCHIVE_DIR" validate:"required_if=ArchiveInput true"`
}

// SummaryConfig controls rankings and display cut-offs.
type SummaryConfig struct {
	// TopN is the number of entries shown in store and product rankings.
	// Default: 10
	TopN int `yaml:"top_n" envconfig:"TOP_N" validate:"gte=1,lte=1000"`

	// DescriptionCutoff is the display length of descriptions in product
	// rankings. Default: 50
	DescriptionCutoff int `yaml:"description_cutoff" envconfig:"DESCRIPTION_CUTOFF" validate:"gte=4"`

	// DetailCutoff is the display length of descriptions in store details.
	// Default: 60
	DetailCutoff int `yaml:"detail_cutoff" envconfig:"DETAIL_CUTOFF" validate:"gte=4"`

	// PreviewCutoff is the display length of descriptions in the preview.
	// Default: 40
	PreviewCutoff int `yaml:"preview_cutoff" envconfig:"PREVIEW_CUTOFF" validate:"gte=4"`

	// PreviewRows is the number of records shown in the preview.
	// Default: 10
	PreviewRows int `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"gte=0"`
}

// LoggingConfig controls the logger built by the logging package.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`

	// Format selects the encoder.
	// Valid values: "console", "json"
	// Default: "console"
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=console json"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment.
//
// PARAMETERS:
//   - path:     The configuration file. Empty means DefaultPath.
//   - explicit: Whether the user named the file. A missing file is an error
//     only in that case.
//
// RETURNS:
//   - A pointer to the validated Config struct.
//   - An error if the file cannot be read or parsed, or validation fails.
func Load(path string, explicit bool) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// Running without a config file is fine.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Input.ProductCodeLabel == "" {
		cfg.Input.ProductCodeLabel = "Hmk Kod"
	}
	if cfg.Input.DescriptionLabel == "" {
		cfg.Input.DescriptionLabel = "Hmk Ürün Açıklama"
	}
	if cfg.Input.BoundaryLabel == "" {
		cfg.Input.BoundaryLabel = "TOPLAM"
	}
	if cfg.Input.CSVDelimiter == "" {
		cfg.Input.CSVDelimiter = ","
	}
	if cfg.Input.CSVEncoding == "" {
		cfg.Input.CSVEncoding = "utf-8"
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = "{original}_donusturulmus_{timestamp}.xlsx"
	}
	if cfg.Output.ArchiveDir == "" {
		cfg.Output.ArchiveDir = "./input_archive"
	}

	if cfg.Summary.TopN == 0 {
		cfg.Summary.TopN = 10
	}
	if cfg.Summary.DescriptionCutoff == 0 {
		cfg.Summary.DescriptionCutoff = 50
	}
	if cfg.Summary.DetailCutoff == 0 {
		cfg.Summary.DetailCutoff = 60
	}
	if cfg.Summary.PreviewCutoff == 0 {
		cfg.Summary.PreviewCutoff = 40
	}
	if cfg.Summary.PreviewRows == 0 {
		cfg.Summary.PreviewRows = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// normalize folds case-insensitive settings to their canonical spelling.
func normalize(cfg *Config) {
	cfg.Input.CSVEncoding = strings.ToLower(strings.TrimSpace(cfg.Input.CSVEncoding))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Input.CSVDelimiter == `\t` {
		cfg.Input.CSVDelimiter = "\t"
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New()

// Validate checks cfg against its field rules and returns one error listing
// every violation.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", fe.Namespace(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value())
	case "len":
		return fmt.Sprintf("%s must be exactly %s character(s)", fe.Namespace(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s must be %s %s, got %v", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}
