// Package config loads the quickfind TOML configuration, writing a default
// file on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lexandro/quickfind/ignore"
)

// DefaultDepth is the traversal depth limit when none is configured.
const DefaultDepth = 10

// Config is the user configuration.
type Config struct {
	// Include lists the roots to index. A leading ~ expands to the home directory.
	Include []string `toml:"include"`
	// Ignore lists glob patterns excluded from indexing.
	Ignore []string `toml:"ignore"`
	// Depth limits how many levels below each root are visited.
	Depth int `toml:"depth"`
	// HighlightColor names the colour of matched spans, e.g. "yellow".
	HighlightColor string `toml:"highlight_color,omitempty"`
	// Editor is the preferred editor command, tried before the fallbacks.
	Editor string `toml:"editor,omitempty"`
	// RespectGitignore also applies each root's .gitignore.
	RespectGitignore bool `toml:"respect_gitignore"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	var include []string
	if home, err := os.UserHomeDir(); err == nil {
		for _, dir := range []string{"Documents", "Projects", "Code", "Desktop"} {
			include = append(include, filepath.Join(home, dir))
		}
	}
	return &Config{
		Include: include,
		Ignore:  append([]string(nil), ignore.DefaultPatterns...),
		Depth:   DefaultDepth,
	}
}

// Dir returns ~/.quickfind.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, ".quickfind"), nil
}

// DefaultPath returns ~/.quickfind/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path. When the file does not exist the
// defaults are written there and created is true.
func Load(path string) (cfg *Config, created bool, err error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = Default()
		if err := Save(cfg, path); err != nil {
			return nil, false, err
		}
		return cfg, true, nil
	}

	cfg = &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	fillDefaults(cfg, md)

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, false, nil
}

// fillDefaults fills keys absent from the file. A key present with an empty
// value is kept as written.
func fillDefaults(cfg *Config, md toml.MetaData) {
	defaults := Default()
	if !md.IsDefined("include") {
		cfg.Include = defaults.Include
	}
	if !md.IsDefined("ignore") {
		cfg.Ignore = defaults.Ignore
	}
	if !md.IsDefined("depth") {
		cfg.Depth = defaults.Depth
	}
}

// Save writes cfg to path as TOML, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# quickfind configuration file")
	fmt.Fprintln(file, "#")
	fmt.Fprintln(file, "# include: roots to index (~ expands to your home directory)")
	fmt.Fprintln(file, "# ignore: glob patterns; * stays within a path segment, ** spans segments")
	fmt.Fprintln(file, "# highlight_color: black, red, green, yellow, blue, magenta, cyan, gray,")
	fmt.Fprintln(file, "#   darkgray, lightred, lightgreen, lightyellow, lightblue, lightmagenta, lightcyan, white")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid field.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Depth < 1 {
		errs = append(errs, ValidationError{
			Field:   "depth",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Depth),
		})
	}
	for i, root := range c.Include {
		if strings.TrimSpace(root) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("include[%d]", i),
				Message: "empty path",
			})
		}
	}
	if c.Editor != "" && strings.TrimSpace(c.Editor) == "" {
		errs = append(errs, ValidationError{Field: "editor", Message: "blank command"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Roots returns Include with a leading ~ expanded.
func (c *Config) Roots() []string {
	roots := make([]string, 0, len(c.Include))
	for _, root := range c.Include {
		roots = append(roots, ExpandHome(root))
	}
	return roots
}

// ExpandHome replaces a leading "~" path element with the home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
