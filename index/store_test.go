package index

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "db.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertAll(t *testing.T, s *Store, paths ...string) {
	t.Helper()
	for _, p := range paths {
		_, err := s.Insert(p)
		require.NoError(t, err)
	}
}

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

func Test_Store_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")

	s, err := Open(path)
	require.NoError(t, err)
	insertAll(t, s, "/a/b.txt")
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	version, err := s.Meta(MetaSchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func Test_Store_InsertIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	inserted, err := s.Insert("/music/track.mp3")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Insert("/music/track.mp3")
	require.NoError(t, err)
	assert.False(t, inserted, "second insert should report already present")

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func Test_Store_BatchCommit(t *testing.T) {
	s := openTestStore(t)

	b, err := s.Batch()
	require.NoError(t, err)
	for _, p := range []string{"/r/a", "/r/b", "/r/a"} {
		_, err := b.Insert(p)
		require.NoError(t, err)
	}
	require.NoError(t, b.Commit())
	require.NoError(t, b.Rollback(), "rollback after commit is a no-op")

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func Test_Store_BatchRollback(t *testing.T) {
	s := openTestStore(t)

	b, err := s.Batch()
	require.NoError(t, err)
	inserted, err := b.Insert("/r/a")
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, b.Rollback())

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func Test_Store_QueryConjunctiveWords(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/a/Foobaz/bar.txt", "/a/foo/qux.txt", "/b/BAR/FOO.md")

	got, err := s.Query("foo bar")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/Foobaz/bar.txt", "/b/BAR/FOO.md"}, sorted(got))
}

func Test_Store_QueryWordOrderIrrelevant(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/a/Foobaz/bar.txt")

	got, err := s.Query("  BAR   foo ")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/Foobaz/bar.txt"}, got)
}

func Test_Store_QueryNonASCIIFoldsCase(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/docs/Ärger/Übersicht.pdf", "/docs/other.pdf")

	got, err := s.Query("übersicht")
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/Ärger/Übersicht.pdf"}, got)

	// Final sigma folds to the same letter as capital sigma.
	insertAll(t, s, "/docs/ΟΔΟΣ.txt")
	got, err = s.Query("οδος")
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/ΟΔΟΣ.txt"}, got)
}

func Test_Store_QueryFoldingWorksBothWays(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/docs/STRASSE.txt", "/docs/Straße.pdf", "/docs/other.txt")

	got, err := s.Query("straße")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/docs/STRASSE.txt", "/docs/Straße.pdf"}, got)

	got, err = s.Query("strasse")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/docs/STRASSE.txt", "/docs/Straße.pdf"}, got)

	got, err = s.Query("strasse pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/Straße.pdf"}, got)
}

func Test_Store_QueryLikeMetacharactersAreLiteral(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/a/100%_done.txt", "/a/100xdone.txt")

	got, err := s.Query("100%_")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/100%_done.txt"}, got)
}

func Test_Store_QueryEmptyTerm(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/a/b.txt")

	for _, term := range []string{"", "   ", "\t"} {
		got, err := s.Query(term)
		require.NoError(t, err)
		assert.Empty(t, got, "term %q", term)
	}
}

func Test_Store_QueryDotSuffix(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/music/track.mp3", "/music/track.mp3x", "/music/LOUD.MP3", "/music/mp3/notes.txt")

	got, err := s.Query(".mp3")
	require.NoError(t, err)
	assert.Equal(t, []string{"/music/LOUD.MP3", "/music/track.mp3"}, sorted(got))
}

func Test_Store_QueryDotSuffixNoWildcards(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/a/x.txt", "/a/x.t*t")

	got, err := s.Query(".t*t")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/x.t*t"}, got)
}

func Test_Store_Glob(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/p/src/main.go", "/p/src/util/helper.go", "/p/README.md")

	got, err := s.Glob("**/*.go", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/p/src/main.go", got[0].Path)
	assert.Equal(t, "/p/src/util/helper.go", got[1].Path)

	got, err = s.Glob("**/*.go", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func Test_Store_GlobInvalidPattern(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Glob("[invalid", 10)
	assert.Error(t, err)
}

func Test_Store_Each(t *testing.T) {
	s := openTestStore(t)
	insertAll(t, s, "/a", "/b", "/c")

	var seen []string
	require.NoError(t, s.Each(func(path string) error {
		seen = append(seen, path)
		return nil
	}))
	assert.Equal(t, []string{"/a", "/b", "/c"}, sorted(seen))

	stop := errors.New("stop")
	err := s.Each(func(string) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func Test_Store_LastIndexed(t *testing.T) {
	s := openTestStore(t)

	got, err := s.LastIndexed()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return when }
	require.NoError(t, s.MarkIndexed())

	got, err = s.LastIndexed()
	require.NoError(t, err)
	assert.True(t, when.Equal(got))
}

func Test_Store_ErrorsWrapErrStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db.sqlite"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Insert("/a")
	assert.ErrorIs(t, err, ErrStore)
	_, err = s.Query("a")
	assert.ErrorIs(t, err, ErrStore)
}
