package ignore

// DefaultPatterns is the ignore list written to a fresh config file.
// It covers hidden entries, VCS metadata, dependency caches and build output.
var DefaultPatterns = []string{
	// Hidden files and VCS
	"**/.*",
	"**/.git",

	// JavaScript dependencies
	"**/node_modules/**",
	"**/bower_components/**",
	"**/.yarn/**",
	"**/.pnpm-store/**",
	"**/.next/**",

	// Python
	"**/.venv/**",
	"**/venv/**",
	"**/__pycache__/**",
	"**/.mypy_cache/**",
	"**/.pytest_cache/**",
	"**/.tox/**",
	"**/.eggs/**",
	"**/*.egg-info/**",
	"**/.uv/**",

	// Rust / Go / JVM / C
	"**/target/**",
	"**/.cargo/**",
	"**/bin/**",
	"**/pkg/**",
	"**/.gradle/**",
	"**/CMakeFiles/**",
	"**/cmake-build-*/**",

	// Build output
	"**/build/**",
	"**/out/**",
	"**/dist/**",
	"**/coverage/**",

	// Environments and caches
	"**/.env/**",
	"**/.direnv/**",
	"**/.cache/**",
	"**/.local/**",
}
