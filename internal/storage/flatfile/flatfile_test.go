package flatfile

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-cms/internal/grade"
	"github.com/aanand-mishra/students-cms/internal/storage"
	"github.com/aanand-mishra/students-cms/internal/types"
)

const header = `==============================
File Name: P14_8-CMS.txt
Database Name: StudentRecords
==============================
[ID],[Name],[Programme],[Marks],[Grade]
`

const dataLines = `2301234,Anna Lee,Computing Science,72.5,B+
2302345,Susan Tan,Software Engineering,88.0,A+
2303456,Bob Lim,Digital Supply Chain (Hons) & Analytics,39.9,F
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "P14_8-CMS.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func dataOf(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.SplitAfter(string(raw), "\n")
	require.GreaterOrEqual(t, len(lines), HeaderLines)
	return strings.Join(lines[HeaderLines:], "")
}

func TestLoad(t *testing.T) {
	s := New(writeFile(t, header+dataLines), "StudentRecords", quietLogger())

	got, err := s.Load()
	require.NoError(t, err)

	want := []types.Student{
		types.New(2301234, "Anna Lee", "Computing Science", 72.5),
		types.New(2302345, "Susan Tan", "Software Engineering", 88),
		types.New(2303456, "Bob Lim", "Digital Supply Chain (Hons) & Analytics", 39.9),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	content := header +
		"2301234,Anna Lee,Computing Science,72.5,B+\n" +
		"2301235,Too,Many,Fields,50.0,C\n" +
		"not a record\n" +
		"\n" +
		"abc,Bad Id,Law,50.0,C\n" +
		"2301236,Bad Marks,Law,fifty,C\n" +
		"0123456,Leading Zero,Law,50.0,C\n" +
		"2301237,Out Of Range,Law,150.0,A+\n" +
		"2301238,Dee Koh,Law,50.0,C\n"
	s := New(writeFile(t, content), "StudentRecords", quietLogger())

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2301234, got[0].ID)
	assert.Equal(t, 2301238, got[1].ID)
}

func TestLoadSkipsOversizedLine(t *testing.T) {
	content := header +
		"2301234,Anna Lee,Computing Science,72.5,B+\n" +
		strings.Repeat("x", 70*1024) + "\n" +
		"2301238,Dee Koh,Law,50.0,C\n"
	s := New(writeFile(t, content), "StudentRecords", quietLogger())

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2301234, got[0].ID)
	assert.Equal(t, 2301238, got[1].ID)
}

func TestLoadOversizedLastLine(t *testing.T) {
	content := header +
		"2301234,Anna Lee,Computing Science,72.5,B+\r\n" +
		"2301235," + strings.Repeat("a", MaxLineLen)
	s := New(writeFile(t, content), "StudentRecords", quietLogger())

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2301234, got[0].ID)
}

func TestLoadRecomputesStaleGrade(t *testing.T) {
	s := New(writeFile(t, header+"2301234,Anna Lee,Computing Science,72.5,F\n"), "StudentRecords", quietLogger())

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, grade.BPlus, got[0].Grade)
}

func TestLoadHeaderOnly(t *testing.T) {
	s := New(writeFile(t, header), "StudentRecords", quietLogger())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.txt"), "StudentRecords", quietLogger())

	_, err := s.Load()
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeFile(t, header+dataLines)
	s := New(path, "StudentRecords", quietLogger())

	recs, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.Save(recs))

	assert.Equal(t, dataLines, dataOf(t, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), header), "header rewritten")
}

func TestSaveCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	s := New(path, "Cohort", quietLogger())

	require.NoError(t, s.Save([]types.Student{types.New(2301234, "Anna Lee", "Law", 60)}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "File Name: new.txt\n")
	assert.Contains(t, text, "Database Name: Cohort\n")
	assert.True(t, strings.HasSuffix(text, "2301234,Anna Lee,Law,60.0,B-\n"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSaveUnwritableDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "no", "such", "dir", "db.txt"), "StudentRecords", quietLogger())

	err := s.Save(nil)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestSaveReadOnlyDirectoryRewritesInPlace(t *testing.T) {
	path := writeFile(t, header+dataLines)
	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	s := New(path, "StudentRecords", quietLogger())
	want := []types.Student{types.New(2301238, "Dee Koh", "Law", 50)}
	require.NoError(t, s.Save(want))

	assert.Equal(t, "2301238,Dee Koh,Law,50.0,C\n", dataOf(t, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	got, err := s.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reload mismatch (-want +got):\n%s", diff)
	}
}
