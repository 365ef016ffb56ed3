package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, patterns ...string) *Rules {
	t.Helper()
	rules, err := Compile(patterns)
	require.NoError(t, err)
	return rules
}

func Test_Compile_InvalidPattern(t *testing.T) {
	_, err := Compile([]string{"**/ok/**", "[invalid"})
	require.Error(t, err)

	var patternErr *PatternError
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, "[invalid", patternErr.Pattern)
	assert.True(t, errors.Is(err, doublestar.ErrBadPattern))
}

func Test_Compile_DefaultPatternsAreValid(t *testing.T) {
	rules, err := Compile(DefaultPatterns)
	require.NoError(t, err)
	assert.Len(t, rules.Patterns(), len(DefaultPatterns))
}

func Test_Rules_RelativeMatchUnderDeepRoot(t *testing.T) {
	root := filepath.Join("/home", "user", "work", "project")
	rules := mustCompile(t, "**/node_modules/**")

	assert.True(t, rules.IsIgnored(filepath.Join(root, "node_modules", "dep", "index.js"), root))
	assert.True(t, rules.IsIgnored(filepath.Join(root, "web", "node_modules", "dep"), root))
	assert.False(t, rules.IsIgnored(filepath.Join(root, "src", "main.go"), root))
}

func Test_Rules_RootRelativePattern(t *testing.T) {
	root := filepath.Join("/data", "music")
	rules := mustCompile(t, "drafts/*")

	// Only the root-relative form "drafts/a.mp3" can match this rule.
	assert.True(t, rules.IsIgnored(filepath.Join(root, "drafts", "a.mp3"), root))
	assert.False(t, rules.IsIgnored(filepath.Join(root, "albums", "drafts.mp3"), root))
}

func Test_Rules_StarStaysInSegment(t *testing.T) {
	root := filepath.Join("/r")
	rules := mustCompile(t, "*.log")

	assert.True(t, rules.IsIgnored(filepath.Join(root, "server.log"), root))
	assert.False(t, rules.IsIgnored(filepath.Join(root, "logs", "server.log"), root))
}

func Test_Rules_QuestionMarkSingleChar(t *testing.T) {
	root := filepath.Join("/r")
	rules := mustCompile(t, "file?.txt")

	assert.True(t, rules.IsIgnored(filepath.Join(root, "file1.txt"), root))
	assert.False(t, rules.IsIgnored(filepath.Join(root, "file12.txt"), root))
}

func Test_Rules_NoCaseFolding(t *testing.T) {
	root := filepath.Join("/r")
	rules := mustCompile(t, "**/Build/**")

	assert.True(t, rules.IsIgnored(filepath.Join(root, "Build", "x.o"), root))
	assert.False(t, rules.IsIgnored(filepath.Join(root, "build", "x.o"), root))
}

func Test_Rules_OutsideRootOnlyAbsoluteCheck(t *testing.T) {
	rules := mustCompile(t, "secret/*")

	// Not under the root, so the relative form is never tried.
	assert.False(t, rules.IsIgnored(filepath.Join("/elsewhere", "secret", "x"), filepath.Join("/r")))
}

func Test_Rules_HiddenEntries(t *testing.T) {
	root := filepath.Join("/r")
	rules := mustCompile(t, "**/.*")

	assert.True(t, rules.IsIgnored(filepath.Join(root, ".env"), root))
	assert.True(t, rules.IsIgnored(filepath.Join(root, "src", ".DS_Store"), root))
	assert.False(t, rules.IsIgnored(filepath.Join(root, "src", "main.go"), root))
}

func Test_Rules_NilAndEmpty(t *testing.T) {
	var rules *Rules
	assert.False(t, rules.IsIgnored("/r/a", "/r"))
	assert.False(t, mustCompile(t).IsIgnored("/r/a", "/r"))
}

func Test_stripRoot(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name   string
		path   string
		root   string
		want   string
		wantOK bool
	}{
		{"root itself", sep + "a", sep + "a", "", true},
		{"child", sep + "a" + sep + "b", sep + "a", "b", true},
		{"sibling with shared prefix", sep + "ab" + sep + "c", sep + "a", "", false},
		{"filesystem root", sep + "x", sep, "x", true},
		{"empty root", sep + "x", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := stripRoot(tt.path, tt.root)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Matcher_GitignoreIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("*.generated.go\nsecret/\n"), 0644))

	matcher := NewMatcher(MatcherOptions{
		RootDir:          tmpDir,
		Rules:            mustCompile(t),
		RespectGitignore: true,
	})

	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "models.generated.go"), false))
	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "secret"), true))
	assert.False(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "main.go"), false))
}

func Test_Matcher_GitignoreDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("*.txt\n"), 0644))

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir, Rules: mustCompile(t)})

	assert.False(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "notes.txt"), false))
}

func Test_Matcher_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	gitignorePath := filepath.Join(tmpDir, ".gitignore")
	require.NoError(t, os.WriteFile(gitignorePath, []byte("*.a\n"), 0644))

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir, Rules: mustCompile(t), RespectGitignore: true})
	require.False(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "x.b"), false))

	require.NoError(t, os.WriteFile(gitignorePath, []byte("*.b\n"), 0644))
	matcher.Reload()

	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "x.b"), false))
	assert.False(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "x.a"), false))
}

func Test_Matcher_RulesApplyWithoutGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir, Rules: mustCompile(t, "**/*.tmp")})

	assert.True(t, matcher.ShouldIgnore(filepath.Join(tmpDir, "a", "b.tmp"), false))
	assert.Equal(t, tmpDir, matcher.RootDir())
}
