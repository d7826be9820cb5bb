package worktodo

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/logger"
)

// DefaultArchiveName is the archive file created next to the queue file
const DefaultArchiveName = "worktodo_save.txt"

// SkipObserver receives every line the queue passes over and why.
// lineNo is 1-based.
type SkipObserver func(lineNo int, raw string, err error)

// LineResult is the outcome of decoding one non-ignored line
type LineResult struct {
	Line  int
	Raw   string
	Entry *Entry
	Err   error
}

// Queue reads and rewrites one worktodo file.
//
// It keeps no position between calls: every call opens the file and starts
// from the top. Callers serialize access; no file lock is taken.
type Queue struct {
	path        string
	archivePath string
	decoder     *Decoder
	log         *zap.SugaredLogger
	observer    SkipObserver
	rename      func(oldpath, newpath string) error
}

// QueueOption configures a Queue
type QueueOption func(*Queue)

// WithArchivePath overrides the archive file (default: worktodo_save.txt beside the queue)
func WithArchivePath(path string) QueueOption {
	return func(q *Queue) {
		if path != "" {
			q.archivePath = path
		}
	}
}

// WithDecoder replaces the line decoder
func WithDecoder(d *Decoder) QueueOption {
	return func(q *Queue) {
		q.decoder = d
	}
}

// WithQueueLogger sets the logger used for accepted and archived lines
func WithQueueLogger(l *zap.SugaredLogger) QueueOption {
	return func(q *Queue) {
		q.log = l
	}
}

// WithSkipObserver receives skip reasons instead of the logger
func WithSkipObserver(obs SkipObserver) QueueOption {
	return func(q *Queue) {
		q.observer = obs
	}
}

// NewQueue creates a Queue for the worktodo file at path
func NewQueue(path string, opts ...QueueOption) *Queue {
	q := &Queue{
		path:        path,
		archivePath: filepath.Join(filepath.Dir(path), DefaultArchiveName),
		rename:      os.Rename,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.decoder == nil {
		q.decoder = NewDecoder(WithLogger(q.log))
	}
	return q
}

// Path returns the queue file path
func (q *Queue) Path() string {
	return q.path
}

// ArchivePath returns the archive file path
func (q *Queue) ArchivePath() string {
	return q.archivePath
}

func (q *Queue) logger() *zap.SugaredLogger {
	if q.log != nil {
		return q.log
	}
	return logger.Logger
}

func (q *Queue) reportSkip(lineNo int, raw string, err error) {
	if q.observer != nil {
		q.observer(lineNo, raw, err)
		return
	}
	fields := []interface{}{
		logger.FieldFile, q.path,
		logger.FieldLine, lineNo,
		logger.FieldReason, err.Error(),
	}
	if skip, ok := AsSkip(err); ok {
		fields = append(fields, logger.FieldKind, string(skip.Kind))
	}
	q.logger().Warnw("Skipping worktodo line", fields...)
}

// FindNext returns the first line that decodes to a runnable entry.
// Skipped lines are reported to the observer. When no line is accepted the
// error matches errors.ErrNotFound; an unreadable file yields an I/O error.
func (q *Queue) FindNext() (*Entry, error) {
	file, err := os.Open(q.path)
	if err != nil {
		return nil, errors.WrapIO(err, "open", q.path)
	}
	defer file.Close()

	var found *Entry
	lineNo := 0
	err = eachLine(file, func(text, _ string) bool {
		lineNo++
		entry, derr := q.decoder.Decode(text)
		switch {
		case derr == nil:
			found = entry
			return false
		case errors.Is(derr, ErrIgnored):
		default:
			q.reportSkip(lineNo, text, derr)
		}
		return true
	})
	if err != nil {
		return nil, errors.WrapIO(err, "read", q.path)
	}

	if found == nil {
		return nil, errors.NewNotFoundError("no valid entry found in %s", q.path)
	}
	q.logger().Infow("Loaded worktodo entry",
		logger.FieldFile, q.path,
		logger.FieldLine, lineNo,
		"entry", found.String(),
	)
	return found, nil
}

// Scan decodes every line without stopping at the first accepted one.
// Blank and comment lines are left out of the result.
func (q *Queue) Scan() ([]LineResult, error) {
	file, err := os.Open(q.path)
	if err != nil {
		return nil, errors.WrapIO(err, "open", q.path)
	}
	defer file.Close()

	var results []LineResult
	lineNo := 0
	err = eachLine(file, func(text, _ string) bool {
		lineNo++
		entry, derr := q.decoder.Decode(text)
		if errors.Is(derr, ErrIgnored) {
			return true
		}
		if derr != nil {
			q.reportSkip(lineNo, text, derr)
		}
		results = append(results, LineResult{Line: lineNo, Raw: text, Entry: entry, Err: derr})
		return true
	})
	if err != nil {
		return nil, errors.WrapIO(err, "read", q.path)
	}
	return results, nil
}

// ArchiveFirstProcessed removes the first non-blank line from the queue and
// appends it to the archive. Whitespace-only lines are not candidates; they
// stay in the queue like any other line after the archived one. It returns
// false when there was nothing to archive or when any file operation failed.
func (q *Queue) ArchiveFirstProcessed() (bool, error) {
	_, archived, err := q.ArchiveFirst()
	return archived, err
}

// ArchiveFirst is ArchiveFirstProcessed that also returns the archived line.
//
// The remaining lines are copied unchanged into a temp file beside the queue
// which then replaces it by rename. The archive is opened only once a line
// was found and the temp file is complete; on every failure the temp file is
// removed and the queue file is left as it was. If the rename fails after the
// append, the archive is cut back to its previous length (or removed when the
// append created it) so the line is never in both files.
func (q *Queue) ArchiveFirst() (string, bool, error) {
	src, err := os.Open(q.path)
	if err != nil {
		return "", false, errors.WrapIO(err, "open", q.path)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", false, errors.WrapIO(err, "stat", q.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(q.path), filepath.Base(q.path)+".*.tmp")
	if err != nil {
		return "", false, errors.WrapIO(err, "create temp for", q.path)
	}
	replaced := false
	defer func() {
		if !replaced {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	var archivedLine string
	found := false
	var writeErr error
	err = eachLine(src, func(text, raw string) bool {
		if !found && !isBlank(text) {
			archivedLine, found = text, true
			return true
		}
		if _, werr := w.WriteString(raw); werr != nil {
			writeErr = werr
			return false
		}
		return true
	})
	if err != nil {
		return "", false, errors.WrapIO(err, "read", q.path)
	}
	if writeErr != nil {
		return "", false, errors.WrapIO(writeErr, "write", tmp.Name())
	}
	if !found {
		return "", false, nil
	}

	if err := w.Flush(); err != nil {
		return "", false, errors.WrapIO(err, "write", tmp.Name())
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return "", false, errors.WrapIO(err, "chmod", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		return "", false, errors.WrapIO(err, "sync", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return "", false, errors.WrapIO(err, "close", tmp.Name())
	}

	undo, err := appendLine(q.archivePath, archivedLine)
	if err != nil {
		return "", false, err
	}

	src.Close()
	if err := q.rename(tmp.Name(), q.path); err != nil {
		err = errors.WrapIO(err, "replace", q.path)
		if undoErr := undo(); undoErr != nil {
			q.logger().Errorw("Archive holds a line still in the queue",
				logger.FieldArchive, q.archivePath,
				logger.FieldRaw, archivedLine,
				logger.FieldError, undoErr,
			)
			return "", false, errors.WithSecondaryError(err, undoErr)
		}
		return "", false, err
	}
	replaced = true

	q.logger().Infow("Archived worktodo line",
		logger.FieldFile, q.path,
		logger.FieldArchive, q.archivePath,
		logger.FieldRaw, archivedLine,
	)
	return archivedLine, true, nil
}

// appendLine appends line to the archive at path and returns a func that
// restores the archive to its state before the append.
func appendLine(path, line string) (func() error, error) {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.WrapIO(err, "open archive", path)
	}
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, errors.WrapIO(err, "seek", path)
	}
	undo := func() error {
		if !existed {
			return errors.WrapIO(os.Remove(path), "remove", path)
		}
		return errors.WrapIO(os.Truncate(path, size), "truncate", path)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		undo()
		return nil, errors.WrapIO(err, "append to", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.WrapIO(err, "close", path)
	}
	return undo, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// eachLine calls fn with every line of r: text without its '\n' and the raw
// bytes including it. Lines of any length are supported. fn returns false to stop.
func eachLine(r io.Reader, fn func(text, raw string) bool) error {
	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if len(raw) > 0 {
			if !fn(strings.TrimSuffix(raw, "\n"), raw) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
