// Package config handles configuration loading and validation for subjectsort.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"subjectsort/internal/catalog"
)

//go:embed sample_config.yaml
var sampleConfig []byte

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound      ConfigErrorType = "FILE_NOT_FOUND"
	ParseError        ConfigErrorType = "PARSE_ERROR"
	ValidationError   ConfigErrorType = "VALIDATION_ERROR"
	UnsupportedFormat ConfigErrorType = "UNSUPPORTED_FORMAT"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case ParseError:
		return fmt.Sprintf("invalid configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	case UnsupportedFormat:
		return fmt.Sprintf("unsupported configuration format %q (use .yaml, .toml or .json)", filepath.Ext(e.Path))
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Subject is a category files are sorted into.
// Keywords are matched in order as case-insensitive substrings of the filename.
// Folders, when non-empty, replaces the default set of type folders.
type Subject struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords" toml:"keywords"`
	Folders  []string `json:"folders,omitempty" yaml:"folders,omitempty" toml:"folders,omitempty"`
}

// TypeRule declares a type tag and its extensions.
type TypeRule struct {
	Name       string   `json:"name" yaml:"name" toml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions" toml:"extensions"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	DebounceSeconds   int      `json:"debounce_seconds,omitempty" yaml:"debounce_seconds,omitempty" toml:"debounce_seconds,omitempty"`
	StableThresholdMs int      `json:"stable_threshold_ms,omitempty" yaml:"stable_threshold_ms,omitempty" toml:"stable_threshold_ms,omitempty"`
	IgnorePatterns    []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" toml:"ignore_patterns,omitempty"`
}

// Configuration holds all settings for subjectsort.
// Subjects keep their declaration order; matching depends on it.
type Configuration struct {
	Root     string       `json:"root" yaml:"root" toml:"root"`
	Subjects []Subject    `json:"subjects" yaml:"subjects" toml:"subjects"`
	Types    []TypeRule   `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty"`
	Log      LogConfig    `json:"log,omitempty" yaml:"log,omitempty" toml:"log,omitempty"`
	Watch    *WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch,omitempty"`
}

// Validate checks that the configuration is usable before any run starts.
// The root must exist and be a directory.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return validationErr("root must be set")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigError{Type: ValidationError, Path: c.Root, Message: "root directory does not exist: " + c.Root, Err: err}
		}
		return &ConfigError{Type: ValidationError, Path: c.Root, Message: "root directory is not accessible: " + err.Error(), Err: err}
	}
	if !info.IsDir() {
		return &ConfigError{Type: ValidationError, Path: c.Root, Message: "root is not a directory: " + c.Root}
	}

	if len(c.Subjects) == 0 {
		return validationErr("subjects must contain at least one subject")
	}

	seen := make(map[string]int)
	for i, subject := range c.Subjects {
		field := formatField("subjects", i)
		if err := checkFolderName(subject.Name); err != nil {
			return validationErr(fmt.Sprintf("%s.name %v", field, err))
		}
		if first, ok := seen[subject.Name]; ok {
			return validationErr(fmt.Sprintf("%s.name duplicates subject at index %d: %q", field, first, subject.Name))
		}
		seen[subject.Name] = i

		for j, keyword := range subject.Keywords {
			if strings.TrimSpace(keyword) == "" {
				return validationErr(fmt.Sprintf("%s.keywords[%d] cannot be empty", field, j))
			}
		}
		for j, folder := range subject.Folders {
			if err := checkFolderName(folder); err != nil {
				return validationErr(fmt.Sprintf("%s.folders[%d] %v", field, j, err))
			}
		}
	}

	tagNames := make(map[string]bool)
	for i, rule := range c.Types {
		field := formatField("types", i)
		if err := checkFolderName(rule.Name); err != nil {
			return validationErr(fmt.Sprintf("%s.name %v", field, err))
		}
		if tagNames[rule.Name] {
			return validationErr(fmt.Sprintf("%s.name duplicates type %q", field, rule.Name))
		}
		tagNames[rule.Name] = true
	}

	return nil
}

// ApplyDefaults fills in zero-valued optional settings.
func (c *Configuration) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	defaults := DefaultWatchConfig()
	if c.Watch == nil {
		c.Watch = &defaults
		return
	}
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = defaults.DebounceSeconds
	}
	if c.Watch.StableThresholdMs == 0 {
		c.Watch.StableThresholdMs = defaults.StableThresholdMs
	}
	// An explicit empty ignore list is kept as-is.
	if c.Watch.IgnorePatterns == nil {
		c.Watch.IgnorePatterns = defaults.IgnorePatterns
	}
}

// DefaultWatchConfig returns the watch settings used when none are configured.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		DebounceSeconds:   2,
		StableThresholdMs: 1000,
		IgnorePatterns:    []string{"*.tmp", "*.part", "*.download", "*.crdownload", "*.partial", ".~*", "~$*"},
	}
}

// Catalog returns the type catalog in effect: the configured types if any,
// otherwise the built-in catalog.
func (c *Configuration) Catalog() *catalog.Catalog {
	if len(c.Types) == 0 {
		return catalog.Default()
	}
	tags := make([]catalog.TypeTag, len(c.Types))
	for i, rule := range c.Types {
		tags[i] = catalog.TypeTag{Name: rule.Name, Extensions: rule.Extensions}
	}
	return catalog.New(tags)
}

// SubjectNames returns subject names in declaration order.
func (c *Configuration) SubjectNames() []string {
	names := make([]string, len(c.Subjects))
	for i, s := range c.Subjects {
		names[i] = s.Name
	}
	return names
}

// FindSubject returns the subject with the given name.
func (c *Configuration) FindSubject(name string) (*Subject, bool) {
	for i := range c.Subjects {
		if c.Subjects[i].Name == name {
			return &c.Subjects[i], true
		}
	}
	return nil, false
}

// Parse reads and decodes a configuration file without validating it.
// The decoder is chosen by file extension. A relative root is resolved
// against the directory holding the configuration file.
func Parse(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: filePath, Err: err}
		}
		return nil, &ConfigError{Type: FileNotFound, Path: filePath, Message: err.Error(), Err: err}
	}

	cfg, err := Decode(data, formatOf(filePath))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = filePath
		}
		return nil, err
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(filePath), cfg.Root)
	}
	if abs, err := filepath.Abs(cfg.Root); err == nil {
		cfg.Root = abs
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// Load reads, decodes and validates a configuration file.
func Load(filePath string) (*Configuration, error) {
	cfg, err := Parse(filePath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Format names a supported configuration encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

func formatOf(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return ""
	}
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*Configuration, error) {
	var cfg Configuration
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, &ConfigError{Type: UnsupportedFormat, Message: "unknown format"}
	}
	if err != nil {
		return nil, &ConfigError{Type: ParseError, Message: err.Error(), Err: err}
	}
	return &cfg, nil
}

// Encode serializes cfg in the given format.
func Encode(cfg *Configuration, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(cfg)
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	default:
		return nil, &ConfigError{Type: UnsupportedFormat, Message: "unknown format"}
	}
}

// Save serializes and writes a configuration to the given path.
// The encoding follows the file extension.
func Save(cfg *Configuration, filePath string) error {
	format := formatOf(filePath)
	if format == "" {
		return &ConfigError{Type: UnsupportedFormat, Path: filePath}
	}
	data, err := Encode(cfg, format)
	if err != nil {
		return &ConfigError{Type: ParseError, Path: filePath, Message: err.Error(), Err: err}
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}
	return nil
}

// SampleConfig returns the commented sample configuration.
func SampleConfig() []byte {
	return append([]byte(nil), sampleConfig...)
}

// WriteSample writes the sample configuration to filePath.
// An existing file is only replaced when overwrite is true.
func WriteSample(filePath string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(filePath); err == nil {
			return fmt.Errorf("configuration file already exists: %s", filePath)
		}
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create configuration directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, sampleConfig, 0o644); err != nil {
		return fmt.Errorf("write sample configuration: %w", err)
	}
	return nil
}

func validationErr(msg string) error {
	return &ConfigError{Type: ValidationError, Message: msg}
}

// checkFolderName rejects names that cannot be a single directory under the root.
func checkFolderName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return errors.New("cannot be empty")
	case trimmed == "." || trimmed == "..":
		return fmt.Errorf("is not a valid folder name: %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("cannot contain path separators: %q", name)
	}
	return nil
}

func formatField(name string, index int) string {
	return fmt.Sprintf("%s[%d]", name, index)
}
