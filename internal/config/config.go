// Package config loads layered configuration: defaults, then the config
// file, then RECORDCOMPARE_* environment variables, then command-line
// flags. The result is validated against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/recordcompare/internal/docstore"
)

//go:embed schema.cue
var schemaCUE string

// FileName is the config file base name searched for without --config.
const FileName = "recordcompare"

// EnvPrefix prefixes environment overrides, e.g. RECORDCOMPARE_DIFF_TOOL.
const EnvPrefix = "RECORDCOMPARE"

// Config is the complete configuration.
type Config struct {
	Host           string        `json:"host" mapstructure:"host"`
	Port           int           `json:"port" mapstructure:"port"`
	Database       string        `json:"database" mapstructure:"database"`
	ReadPreference string        `json:"read_preference" mapstructure:"read_preference"`
	ConnectTimeout time.Duration `json:"connect_timeout" mapstructure:"connect_timeout"`
	SnapshotDir    string        `json:"snapshot_dir" mapstructure:"snapshot_dir"`
	PreviewLimit   int           `json:"preview_limit" mapstructure:"preview_limit"`
	Diff           DiffConfig    `json:"diff" mapstructure:"diff"`
	Journal        JournalConfig `json:"journal" mapstructure:"journal"`
	Log            LogConfig     `json:"log" mapstructure:"log"`
}

// DiffConfig selects the external diff tool.
type DiffConfig struct {
	Tool string   `json:"tool" mapstructure:"tool"`
	Args []string `json:"args" mapstructure:"args"`
	Wait bool     `json:"wait" mapstructure:"wait"`
}

// JournalConfig controls the run journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// Target returns the connection target described by c.
func (c *Config) Target() docstore.Target {
	return docstore.Target{
		Host:           c.Host,
		Port:           c.Port,
		Database:       c.Database,
		ReadPreference: c.ReadPreference,
	}
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	journalPath := filepath.Join(os.TempDir(), "recordcompare", "journal.db")
	if dir, err := os.UserCacheDir(); err == nil {
		journalPath = filepath.Join(dir, "recordcompare", "journal.db")
	}

	return map[string]any{
		"host":            docstore.DefaultHost,
		"port":            docstore.DefaultPort,
		"database":        "",
		"read_preference": docstore.DefaultReadPreference,
		"connect_timeout": "10s",
		"snapshot_dir":    filepath.Join(os.TempDir(), "recordcompare"),
		"preview_limit":   10,
		"diff.tool":       "diff",
		"diff.args":       []string{"-u", "{left}", "{right}"},
		"diff.wait":       true,
		"journal.enabled": true,
		"journal.path":    journalPath,
		"log.level":       "info",
	}
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"host":            "host",
	"port":            "port",
	"db":              "database",
	"read-preference": "read_preference",
	"snapshot-dir":    "snapshot_dir",
	"diff-tool":       "diff.tool",
	"preview-limit":   "preview_limit",
	"journal":         "journal.path",
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file; it must exist.
	File string

	// SearchPaths are searched for recordcompare.yaml when File is empty.
	// Nil means the working directory and $HOME/.config/recordcompare.
	SearchPaths []string

	// Flags overrides everything else for flags the user set.
	Flags *pflag.FlagSet
}

// Load builds the configuration and validates it against #Config.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, p := range searchPaths(opts.SearchPaths) {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Diff.Args == nil {
		cfg.Diff.Args = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func searchPaths(paths []string) []string {
	if paths != nil {
		return paths
	}
	paths = []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "recordcompare"))
	}
	return paths
}

// ValidationError reports a configuration that does not satisfy the
// schema.
type ValidationError struct {
	Definition string
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %v", e.Definition, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks c against #Config.
func (c *Config) Validate() error {
	return c.validate("#Config")
}

// ValidateSession checks c against #Session, which additionally requires
// a database.
func (c *Config) ValidateSession() error {
	return c.validate("#Session")
}

func (c *Config) validate(definition string) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup %s: %w", definition, err)
	}

	encoded := *c
	if encoded.Diff.Args == nil {
		encoded.Diff.Args = []string{}
	}
	val := def.Unify(ctx.Encode(encoded))
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Definition: definition, Err: err}
	}
	return nil
}
