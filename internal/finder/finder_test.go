package finder

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupfind/internal/config"
	"dupfind/internal/verify"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// labels renders each group as its size and sorted base names, e.g. "10:a,b".
func labels(groups []verify.Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		members := make([]string, 0, len(g.Files))
		for _, f := range g.Files {
			members = append(members, filepath.Base(f.Path))
		}
		sort.Strings(members)
		out = append(out, strconv.FormatInt(g.Size, 10)+":"+strings.Join(members, ","))
	}
	return out
}

func run(t *testing.T, cfg *config.Config, roots ...string) *Result {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	result, err := New(cfg, zerolog.Nop()).Run(roots)
	require.NoError(t, err)
	return result
}

func TestRun_TwoOfThree(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a": "hello12345",
		"b": "hello12345",
		"c": "different!",
	})

	result := run(t, nil, dir)
	require.Len(t, result.Groups, 1)
	g := result.Groups[0]
	assert.Equal(t, int64(10), g.Size)
	assert.ElementsMatch(t,
		[]string{filepath.Join(dir, "a"), filepath.Join(dir, "b")},
		[]string{g.Files[0].Path, g.Files[1].Path})
	assert.Equal(t, 3, result.Files)
}

func TestRun_EmptyFilesAlwaysGroup(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"x": "", "sub/y": "", "sub/deeper/z": ""})

	result := run(t, nil, dir)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, int64(0), result.Groups[0].Size)
	assert.Len(t, result.Groups[0].Files, 3)
}

func TestRun_DifferentSizesNeverGroup(t *testing.T) {
	dir := t.TempDir()
	prefix := strings.Repeat("p", 50)
	writeFiles(t, dir, map[string]string{
		"p": prefix + strings.Repeat("q", 50),
		"q": prefix,
	})

	result := run(t, nil, dir)
	assert.Empty(t, result.Groups)
	assert.Zero(t, result.Stats.PairsCompared)
}

func TestRun_TwoClustersOfOneSize(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1": "aaaaaaaa",
		"2": "aaaaaaaa",
		"3": "aaaaaaaa",
		"4": "bbbbbbbb",
		"5": "bbbbbbbb",
	})

	result := run(t, nil, dir)
	require.Len(t, result.Groups, 2)
	assert.ElementsMatch(t, []string{"8:1,2,3", "8:4,5"}, labels(result.Groups))
}

func TestRun_HardLinkIsNotADuplicate(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"file": "only one physical copy"})
	if err := os.Link(filepath.Join(dir, "file"), filepath.Join(dir, "link")); err != nil {
		t.Skipf("hard links not supported: %v", err)
	}

	result := run(t, nil, dir)
	assert.Empty(t, result.Groups)
	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.Collapsed)
}

func TestRun_OverlappingRootsCollapse(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"sub/a": "same", "sub/b": "same"})

	result := run(t, nil, dir, filepath.Join(dir, "sub"))
	require.Len(t, result.Groups, 1)
	assert.Len(t, result.Groups[0].Files, 2)
	assert.Equal(t, 2, result.Collapsed)
}

func TestRun_LargestSizeFirst(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"s1": "x", "s2": "x",
		"m1": "xyz", "m2": "xyz",
		"l1": "xyzzy", "l2": "xyzzy",
		"e1": "", "e2": "",
		"u":  "unique",
	})

	result := run(t, nil, dir)
	assert.Equal(t, []string{"5:l1,l2", "3:m1,m2", "1:s1,s2", "0:e1,e2"}, labels(result.Groups))
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a": "one", "b": "one", "c": "two", "d": "two", "e": "six", "f": "",
	})

	first := labels(run(t, nil, dir).Groups)
	second := labels(run(t, nil, dir).Groups)
	assert.Equal(t, first, second)
}

func TestRun_ExcludedFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"keep/a":  "same",
		"keep/b":  "same",
		"cache/c": "same",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude = []string{"cache/"}
	result := run(t, cfg, dir)
	assert.Equal(t, []string{"4:a,b"}, labels(result.Groups))
}

func TestRun_NoRoots(t *testing.T) {
	_, err := New(config.DefaultConfig(), zerolog.Nop()).Run(nil)
	assert.ErrorIs(t, err, ErrNoRoots)
}

func TestRun_MissingRoot(t *testing.T) {
	result, err := New(config.DefaultConfig(), zerolog.Nop()).Run([]string{"/nonexistent/directory"})
	require.NoError(t, err)
	assert.Empty(t, result.Groups)
	require.Len(t, result.WalkErrors, 1)
	assert.ErrorIs(t, result.WalkErrors[0], os.ErrNotExist)
}

func TestRun_MissingRootBesideGoodRoot(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "same", "b": "same"})

	result, err := New(config.DefaultConfig(), zerolog.Nop()).Run([]string{"/nonexistent/directory", dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"4:a,b"}, labels(result.Groups))
	assert.Len(t, result.WalkErrors, 1)
}

func TestRun_UnreadableCandidateAborts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "same", "b": "same"})

	failing := func(path string) (verify.File, error) {
		return nil, os.ErrPermission
	}
	_, err := New(config.DefaultConfig(), zerolog.Nop(), verify.WithOpener(failing)).Run([]string{dir})

	var ioErr *verify.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestRun_ProgressOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "same", "b": "same"})

	var buf bytes.Buffer
	f := New(config.DefaultConfig(), zerolog.Nop())
	f.SetProgressOutput(&buf)
	_, err := f.Run([]string{dir})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(1/1 sizes)")
}
