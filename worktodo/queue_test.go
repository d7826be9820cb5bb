package worktodo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/worktodo/errors"
)

type skipped struct {
	line int
	raw  string
	err  error
}

func writeQueue(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worktodo.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newTestQueue(path string, seen *[]skipped, opts ...QueueOption) *Queue {
	opts = append([]QueueOption{
		WithDecoder(NewDecoder(WithValidator(acceptAll), WithLogger(zap.NewNop().Sugar()))),
		WithQueueLogger(zap.NewNop().Sugar()),
		WithSkipObserver(func(line int, raw string, err error) {
			*seen = append(*seen, skipped{line, raw, err})
		}),
	}, opts...)
	return NewQueue(path, opts...)
}

func TestFindNextSkipsToFirstValid(t *testing.T) {
	content := "# header\n" +
		"\n" +
		"Cert=1,2,3\n" +
		"PFactor=1277,70,5\n" +
		"Test=1277,60,1\n" +
		"PRP=1,2,89,1,\"3\"\n"
	path := writeQueue(t, content)

	var seen []skipped
	q := newTestQueue(path, &seen)

	e, err := q.FindNext()
	require.NoError(t, err)
	assert.Equal(t, KindLL, e.Kind)
	assert.Equal(t, "Test=1277,60,1", e.RawLine)

	require.Len(t, seen, 2, "comments and blank lines are not reported")
	assert.Equal(t, 3, seen[0].line)
	assert.Equal(t, "Cert=1,2,3", seen[0].raw)
	assert.Contains(t, seen[0].err.Error(), "unsupported test type: Cert")
	assert.Equal(t, 4, seen[1].line)
	assert.Contains(t, seen[1].err.Error(), "not enough parts for B1,B2")

	assert.Equal(t, content, readFile(t, path), "FindNext never modifies the queue")

	// No position is kept: a second call starts from the top again
	seen = nil
	again, err := q.FindNext()
	require.NoError(t, err)
	assert.Equal(t, e, again)
	assert.Len(t, seen, 2)
}

func TestFindNextNothingRunnable(t *testing.T) {
	path := writeQueue(t, "# only comments\n\nCert=1\nPRP=1,3,100,-1\n")

	var seen []skipped
	e, err := newTestQueue(path, &seen).FindNext()
	assert.Nil(t, e)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.False(t, errors.IsIOError(err))
	assert.Len(t, seen, 2)
}

func TestFindNextMissingFile(t *testing.T) {
	var seen []skipped
	q := newTestQueue(filepath.Join(t.TempDir(), "missing.txt"), &seen)

	e, err := q.FindNext()
	assert.Nil(t, e)
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.IsNotFoundError(err))
}

func TestFindNextLongLine(t *testing.T) {
	factors := strings.Repeat("7,", 40000) + "7"
	path := writeQueue(t, "PRP=1,2,1277,-1,\""+factors+"\"\n")

	var seen []skipped
	e, err := newTestQueue(path, &seen).FindNext()
	require.NoError(t, err)
	assert.Len(t, e.KnownFactors, 40001)
}

func TestFindNextLastLineWithoutNewline(t *testing.T) {
	path := writeQueue(t, "Cert=1\nTest=1277,60,1")

	var seen []skipped
	e, err := newTestQueue(path, &seen).FindNext()
	require.NoError(t, err)
	assert.Equal(t, "Test=1277,60,1", e.RawLine)
}

func TestFindNextLogsSkipsWithoutObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core).Sugar()
	path := writeQueue(t, "Cert=1,2,3\nTest=1277,60,1\n")

	q := NewQueue(path, WithQueueLogger(log))
	_, err := q.FindNext()
	require.NoError(t, err)

	warn := logs.FilterMessage("Skipping worktodo line").All()
	require.Len(t, warn, 1)
	ctx := warn[0].ContextMap()
	assert.Equal(t, path, ctx["file"])
	assert.EqualValues(t, 1, ctx["line"])
	assert.Equal(t, "unsupported", ctx["kind"])

	assert.Equal(t, 1, logs.FilterMessage("Loaded worktodo entry").Len())
}

func TestScan(t *testing.T) {
	path := writeQueue(t, "# c\nTest=1277,60,1\n\nCert=1\nPFactor=1277,70,5,1000,50000\n")

	var seen []skipped
	results, err := newTestQueue(path, &seen).Scan()
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 2, results[0].Line)
	require.NotNil(t, results[0].Entry)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, 4, results[1].Line)
	assert.Nil(t, results[1].Entry)
	assert.Error(t, results[1].Err)

	assert.Equal(t, 5, results[2].Line)
	assert.Equal(t, KindPM1, results[2].Entry.Kind)
	assert.Len(t, seen, 1)
}

func TestDefaultArchivePath(t *testing.T) {
	q := NewQueue("/var/lib/engine/worktodo.txt")
	assert.Equal(t, "/var/lib/engine/worktodo.txt", q.Path())
	assert.Equal(t, "/var/lib/engine/worktodo_save.txt", q.ArchivePath())

	q = NewQueue("worktodo.txt", WithArchivePath("/tmp/done.txt"))
	assert.Equal(t, "/tmp/done.txt", q.ArchivePath())

	q = NewQueue("worktodo.txt", WithArchivePath(""))
	assert.Equal(t, DefaultArchiveName, q.ArchivePath())
}

func TestArchiveFirstProcessed(t *testing.T) {
	path := writeQueue(t, "\n  \nTest=1277,60,1  \nPRP=1,2,89,1,\"3\"\r\n\n# keep me\nlast-no-newline")
	var seen []skipped
	q := newTestQueue(path, &seen)

	ok, err := q.ArchiveFirstProcessed()
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "\n  \nPRP=1,2,89,1,\"3\"\r\n\n# keep me\nlast-no-newline", readFile(t, path),
		"remaining lines are copied byte for byte")
	assert.Equal(t, "Test=1277,60,1  \n", readFile(t, q.ArchivePath()))

	line, ok, err := q.ArchiveFirst()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "PRP=1,2,89,1,\"3\"\r", line)
	assert.Equal(t, "Test=1277,60,1  \nPRP=1,2,89,1,\"3\"\r\n", readFile(t, q.ArchivePath()),
		"archive is appended, never truncated")

	// Comments are not blank, so they are archived like any other line
	line, ok, err = q.ArchiveFirst()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "# keep me", line)

	line, ok, err = q.ArchiveFirst()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "last-no-newline", line)
	assert.Equal(t, "\n  \n\n", readFile(t, path))

	ok, err = q.ArchiveFirstProcessed()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "\n  \n\n", readFile(t, path))
	assert.Empty(t, seen, "archiving does not decode")
}

func TestArchiveEmptyQueue(t *testing.T) {
	for name, content := range map[string]string{
		"empty file":  "",
		"blank lines": "\n\t\n   \n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeQueue(t, content)
			var seen []skipped
			q := newTestQueue(path, &seen)

			ok, err := q.ArchiveFirstProcessed()
			require.NoError(t, err)
			assert.False(t, ok)

			assert.Equal(t, content, readFile(t, path))
			_, err = os.Stat(q.ArchivePath())
			assert.True(t, os.IsNotExist(err), "archive must not be created")
			assertNoTempFiles(t, filepath.Dir(path))
		})
	}
}

func TestArchiveMissingQueue(t *testing.T) {
	dir := t.TempDir()
	var seen []skipped
	q := newTestQueue(filepath.Join(dir, "worktodo.txt"), &seen)

	ok, err := q.ArchiveFirstProcessed()
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))

	_, err = os.Stat(q.ArchivePath())
	assert.True(t, os.IsNotExist(err))
}

func TestArchiveUnwritableArchiveLeavesQueue(t *testing.T) {
	content := "Test=1277,60,1\nTest=1279,60,1\n"
	path := writeQueue(t, content)
	var seen []skipped
	q := newTestQueue(path, &seen, WithArchivePath(filepath.Join(t.TempDir(), "no", "such", "dir", "save.txt")))

	ok, err := q.ArchiveFirstProcessed()
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.IsIOError(err))

	assert.Equal(t, content, readFile(t, path), "queue untouched when the archive cannot be written")
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestArchiveReplaceFailureRestoresArchive(t *testing.T) {
	tests := []struct {
		name    string
		archive *string // nil: no archive file yet
	}{
		{"existing archive", func() *string { s := "Test=1201,60,1\n"; return &s }()},
		{"archive created by the append", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "Test=1277,60,1\nTest=1279,60,1\n"
			path := writeQueue(t, content)
			var seen []skipped
			q := newTestQueue(path, &seen)
			if tt.archive != nil {
				require.NoError(t, os.WriteFile(q.ArchivePath(), []byte(*tt.archive), 0644))
			}
			q.rename = func(string, string) error {
				return errors.New("invalid cross-device link")
			}

			line, ok, err := q.ArchiveFirst()
			assert.False(t, ok)
			assert.Empty(t, line)
			require.Error(t, err)
			assert.True(t, errors.IsIOError(err))

			assert.Equal(t, content, readFile(t, path))
			if tt.archive != nil {
				assert.Equal(t, *tt.archive, readFile(t, q.ArchivePath()), "appended line is cut back")
			} else {
				_, err := os.Stat(q.ArchivePath())
				assert.True(t, os.IsNotExist(err), "archive created by the append is removed")
			}
			assertNoTempFiles(t, filepath.Dir(path))
		})
	}
}

func TestArchiveKeepsPermissions(t *testing.T) {
	path := writeQueue(t, "Test=1277,60,1\nTest=1279,60,1\n")
	require.NoError(t, os.Chmod(path, 0600))

	var seen []skipped
	q := newTestQueue(path, &seen)
	ok, err := q.ArchiveFirstProcessed()
	require.NoError(t, err)
	require.True(t, ok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestArchiveThenFindNext(t *testing.T) {
	path := writeQueue(t, "Test=1277,60,1\nPFactor=1279,70,5,1000,50000\n")
	var seen []skipped
	q := newTestQueue(path, &seen)

	e, err := q.FindNext()
	require.NoError(t, err)
	assert.Equal(t, uint32(1277), e.Exponent)

	ok, err := q.ArchiveFirstProcessed()
	require.NoError(t, err)
	require.True(t, ok)

	e, err = q.FindNext()
	require.NoError(t, err)
	assert.Equal(t, KindPM1, e.Kind)
	assert.Equal(t, uint32(1279), e.Exponent)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}
