// Package flatfile stores student records in a comma-delimited text file.
//
// FILE LAYOUT:
//
//	==============================             ┐
//	File Name: P14_8-CMS.txt                   │ 5 header lines,
//	Database Name: StudentRecords              │ skipped on read,
//	==============================             │ rewritten on save
//	[ID],[Name],[Programme],[Marks],[Grade]    ┘
//	2301234,Anna Lee,Computing Science,72.5,B+
//	...
//
// One record per line, five fields, no quoting. Fields can never contain a
// comma because the validators do not allow one.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aanand-mishra/students-cms/internal/grade"
	"github.com/aanand-mishra/students-cms/internal/storage"
	"github.com/aanand-mishra/students-cms/internal/types"
	"github.com/aanand-mishra/students-cms/internal/validate"
)

// HeaderLines is the number of metadata lines at the top of the file.
const HeaderLines = 5

// MaxLineLen is the longest line Load will parse. A valid record is far
// shorter; anything longer is skipped as malformed.
const MaxLineLen = 4096

const (
	fieldCount  = 5
	defaultPerm = os.FileMode(0o644)
)

// Compile-time interface check.
var _ storage.Storage = (*FileStorage)(nil)

// FileStorage is the flat text file backend.
type FileStorage struct {
	path   string
	dbName string
	log    *slog.Logger
}

// New returns a backend for the file at path. dbName is written into the
// header on save.
func New(path, dbName string, log *slog.Logger) *FileStorage {
	if log == nil {
		log = slog.Default()
	}
	return &FileStorage{path: path, dbName: dbName, log: log}
}

// Location returns the file path.
func (s *FileStorage) Location() string { return s.path }

// Close is a no-op: the file is only held open inside Load and Save.
func (s *FileStorage) Close() error { return nil }

// Load reads every record after the header. A line with the wrong number
// of fields, with a value that breaks a field rule, or longer than
// MaxLineLen is logged and skipped. A grade that disagrees with the marks
// is recomputed.
func (s *FileStorage) Load() ([]types.Student, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("flatfile.Load: open %s: %w: %w", s.path, storage.ErrUnavailable, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, MaxLineLen)
	students := make([]types.Student, 0)
	lineNo := 0

	for {
		line, tooLong, err := readLine(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flatfile.Load: read %s: %w: %w", s.path, storage.ErrUnavailable, err)
		}

		lineNo++
		if lineNo <= HeaderLines {
			continue
		}
		if tooLong {
			s.log.Warn("skipping oversized line",
				slog.String("path", s.path),
				slog.Int("line", lineNo),
				slog.Int("limit", MaxLineLen))
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		student, err := s.parseLine(line)
		if err != nil {
			s.log.Warn("skipping malformed line",
				slog.String("path", s.path),
				slog.Int("line", lineNo),
				slog.String("error", err.Error()))
			continue
		}
		students = append(students, student)
	}

	if lineNo < HeaderLines {
		s.log.Warn("file ended inside the header",
			slog.String("path", s.path),
			slog.Int("lines", lineNo))
	}

	return students, nil
}

// readLine returns the next line without its line ending. A line that does
// not fit in the reader's buffer is consumed to its end and reported as
// tooLong instead of being returned. io.EOF means there are no more lines.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	raw, isPrefix, err := r.ReadLine()
	if err != nil {
		return "", false, err
	}
	if !isPrefix {
		return string(raw), false, nil
	}

	for isPrefix {
		_, isPrefix, err = r.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", false, err
		}
	}
	return "", true, nil
}

func (s *FileStorage) parseLine(line string) (types.Student, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fieldCount {
		return types.Student{}, fmt.Errorf("%w: want %d fields, got %d", storage.ErrMalformedRecord, fieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return types.Student{}, fmt.Errorf("%w: id %q: %w", storage.ErrMalformedRecord, fields[0], err)
	}
	marks, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return types.Student{}, fmt.Errorf("%w: marks %q: %w", storage.ErrMalformedRecord, fields[3], err)
	}

	student := types.New(id, fields[1], fields[2], validate.RoundMarks(marks))
	if stored := grade.Grade(fields[4]); stored != student.Grade {
		s.log.Warn("stored grade disagrees with marks, recomputed",
			slog.Int("id", id),
			slog.String("stored", string(stored)),
			slog.String("grade", string(student.Grade)))
	}

	if err := validate.Record(student); err != nil {
		return types.Student{}, fmt.Errorf("%w: %w", storage.ErrMalformedRecord, err)
	}
	return student, nil
}

// Save rewrites the whole file: header first, then one line per record.
// The data goes to a temporary file in the same directory which then
// replaces the existing one, so a failed save leaves the old file intact.
//
// When the directory is not writable but the file is, the file is
// truncated and rewritten in place instead.
func (s *FileStorage) Save(students []types.Student) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if errors.Is(err, fs.ErrPermission) {
		s.log.Warn("directory not writable, rewriting file in place",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return s.saveInPlace(students)
	}
	if err != nil {
		return fmt.Errorf("flatfile.Save: create temp: %w: %w", storage.ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := s.writeAll(tmp, students); err != nil {
		tmp.Close()
		return fmt.Errorf("flatfile.Save: write: %w: %w", storage.ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flatfile.Save: close: %w: %w", storage.ErrUnavailable, err)
	}

	// Keep the permissions of an existing file.
	mode := defaultPerm
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("flatfile.Save: stat: %w: %w", storage.ErrUnavailable, err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("flatfile.Save: chmod: %w: %w", storage.ErrUnavailable, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("flatfile.Save: replace %s: %w: %w", s.path, storage.ErrUnavailable, err)
	}
	return nil
}

// saveInPlace truncates the existing file and writes into it directly.
func (s *FileStorage) saveInPlace(students []types.Student) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("flatfile.Save: open %s: %w: %w", s.path, storage.ErrUnavailable, err)
	}
	if err := s.writeAll(f, students); err != nil {
		f.Close()
		return fmt.Errorf("flatfile.Save: write: %w: %w", storage.ErrUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("flatfile.Save: close: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

func (s *FileStorage) writeAll(dst io.Writer, students []types.Student) error {
	w := bufio.NewWriter(dst)
	s.writeHeader(w)
	for _, st := range students {
		fmt.Fprintf(w, "%d,%s,%s,%s,%s\n", st.ID, st.Name, st.Programme, st.MarksString(), st.Grade)
	}
	return w.Flush()
}

func (s *FileStorage) writeHeader(w *bufio.Writer) {
	rule := strings.Repeat("=", 30)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "File Name: %s\n", filepath.Base(s.path))
	fmt.Fprintf(w, "Database Name: %s\n", s.dbName)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "[ID],[Name],[Programme],[Marks],[Grade]")
}
