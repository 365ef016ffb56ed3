// Package register adds quickfind as an MCP server to a client config file.
package register

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

// MCPFlag is the flag that starts quickfind as a stdio MCP server.
const MCPFlag = "-mcp"

// ErrUsage is returned when the register arguments are malformed.
var ErrUsage = errors.New("invalid register arguments")

// Scopes a server can be registered in.
const (
	ScopeProject = "project"
	ScopeUser    = "user"
)

// Options is a parsed register command line.
type Options struct {
	Scope string
	// Dir holds the project's .mcp.json. Only used for ScopeProject.
	Dir string
	// Name overrides the server name derived from the binary.
	Name string
	// Config, DB and LogLevel are forwarded to the server when set.
	Config   string
	DB       string
	LogLevel string
}

type mcpServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// ParseArgs parses everything after "register": flags first, then the scope
// and, for project scope, an optional directory.
func ParseArgs(args []string) (Options, error) {
	var opts Options
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.Name, "name", "", "")
	fs.StringVar(&opts.Config, "config", "", "")
	fs.StringVar(&opts.DB, "db", "", "")
	fs.StringVar(&opts.LogLevel, "log-level", "", "")
	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Options{}, fmt.Errorf("%w: missing scope", ErrUsage)
	}
	opts.Scope = rest[0]
	switch {
	case opts.Scope == ScopeProject && len(rest) <= 2:
		opts.Dir = "."
		if len(rest) == 2 {
			opts.Dir = rest[1]
		}
	case opts.Scope == ScopeUser && len(rest) == 1:
	case opts.Scope != ScopeProject && opts.Scope != ScopeUser:
		return Options{}, fmt.Errorf("%w: unknown scope %q (must be %q or %q)", ErrUsage, opts.Scope, ScopeProject, ScopeUser)
	default:
		return Options{}, fmt.Errorf("%w: unexpected arguments %q", ErrUsage, rest[1:])
	}
	return opts, nil
}

// ServerArgs returns the flags the client passes to quickfind. The client
// starts the server from its own working directory, so paths are made
// absolute.
func (o Options) ServerArgs() ([]string, error) {
	args := []string{MCPFlag}
	for _, f := range []struct{ name, path string }{{"-config", o.Config}, {"-db", o.DB}} {
		if f.path == "" {
			continue
		}
		abs, err := filepath.Abs(f.path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s %s: %w", f.name, f.path, err)
		}
		args = append(args, f.name, abs)
	}
	if o.LogLevel != "" {
		args = append(args, "-log-level", o.LogLevel)
	}
	return args, nil
}

// Run executes the register subcommand. defaultName is used unless -name is
// given. The outcome is reported on out.
func Run(defaultName string, args []string, out io.Writer) error {
	opts, err := ParseArgs(args)
	if err != nil {
		return err
	}
	name := defaultName
	if opts.Name != "" {
		name = opts.Name
	}

	serverArgs, err := opts.ServerArgs()
	if err != nil {
		return err
	}
	binaryPath, err := detectBinaryPath()
	if err != nil {
		return fmt.Errorf("detecting binary path: %w", err)
	}
	configPath, err := resolveConfigPath(opts)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	result, err := upsertServer(configPath, name, buildEntry(runtime.GOOS, binaryPath, serverArgs))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %q in %s\n", result, name, configPath)
	return nil
}

// Usage prints the register subcommand synopsis.
func Usage(w io.Writer, binaryName string) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s register [flags] project [dir]   # <dir>/.mcp.json (default: .)\n", binaryName)
	fmt.Fprintf(w, "  %s register [flags] user            # ~/.claude.json\n", binaryName)
	fmt.Fprintf(w, "\nFlags:\n")
	fmt.Fprintf(w, "  -name string       server name (default: %s)\n", DeriveServerName(binaryName))
	fmt.Fprintf(w, "  -config string     config file the server loads\n")
	fmt.Fprintf(w, "  -db string         index database the server reads\n")
	fmt.Fprintf(w, "  -log-level string  server log level\n")
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(opts Options) (string, error) {
	if opts.Scope == ScopeProject {
		dir, err := filepath.Abs(opts.Dir)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", opts.Dir, err)
		}
		return filepath.Join(dir, ".mcp.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".claude.json"), nil
}

// buildEntry wraps the binary in cmd /C on Windows.
func buildEntry(goos, binaryPath string, serverArgs []string) mcpServerEntry {
	if goos == "windows" {
		return mcpServerEntry{Command: "cmd", Args: append([]string{"/C", binaryPath}, serverArgs...)}
	}
	return mcpServerEntry{Command: binaryPath, Args: serverArgs}
}

type outcome string

const (
	added     outcome = "Registered"
	replaced  outcome = "Updated"
	unchanged outcome = "Already registered"
)

// upsertServer sets name under mcpServers, keeping every other key of the
// client config. The file is left alone when the entry is already current.
func upsertServer(configPath, name string, entry mcpServerEntry) (outcome, error) {
	config := map[string]any{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return "", fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers := map[string]any{}
	if raw, ok := config["mcpServers"]; ok {
		if servers, ok = raw.(map[string]any); !ok {
			return "", fmt.Errorf("mcpServers in %s is not an object", configPath)
		}
	}
	config["mcpServers"] = servers

	result := added
	if old, ok := servers[name]; ok {
		result = replaced
		if sameEntry(old, entry) {
			return unchanged, nil
		}
	}
	servers[name] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	if err := writeFileAtomic(configPath, append(output, '\n')); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return result, nil
}

// sameEntry reports whether old, as decoded from the config file, encodes the
// same JSON object as entry.
func sameEntry(old any, entry mcpServerEntry) bool {
	data, err := json.Marshal(entry)
	if err != nil {
		return false
	}
	var fresh any
	if err := json.Unmarshal(data, &fresh); err != nil {
		return false
	}
	return reflect.DeepEqual(old, fresh)
}

// writeFileAtomic replaces path through a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
