// Package specdata reads the line oriented data shards with the anchors and
// bibliography entries of other specifications. Shards are plain text files,
// optionally compressed with xz, named after a two character group key.
package specdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// GroupName returns the shard key for key: the first two characters of the
// lowercased key that are in [a-z0-9], padded with '_'.
func GroupName(key string) string {
	const groupLength = 2

	group := make([]byte, 0, groupLength)
	for _, r := range strings.ToLower(key) {
		if len(group) == groupLength {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			group = append(group, byte(r))
		}
	}
	for len(group) < groupLength {
		group = append(group, '_')
	}
	return string(group)
}

// ShardPath returns the path of the shard of kind ("anchors" or "biblio") for
// group under dir.
func ShardPath(dir, kind, group string) string {
	return filepath.Join(dir, kind, kind+"-"+group+".data")
}

// FormatError reports a malformed shard.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// ReadShard reads all the lines of a shard. It tries path and then path+".xz".
// found is false, with no error, when neither file exists.
func ReadShard(path string) (lines []string, found bool, err error) {
	f, err := os.Open(path)
	var r io.Reader = f
	if errors.Is(err, fs.ErrNotExist) {
		path += ".xz"
		f, err = os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		if err == nil {
			xzr, xerr := xz.NewReader(f)
			if xerr != nil {
				f.Close()
				return nil, true, fmt.Errorf("opening %s: %w", path, xerr)
			}
			r = xzr
		}
	}
	if err != nil {
		return nil, true, err
	}
	defer f.Close()

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, true, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, true, nil
}

// A Reader walks the records of a shard.
type Reader struct {
	file  string
	lines []string
	pos   int
}

// NewReader returns a Reader over lines read from file.
func NewReader(file string, lines []string) *Reader {
	return &Reader{file: file, lines: lines}
}

// More reports whether there are lines left.
func (r *Reader) More() bool {
	return r.pos < len(r.lines)
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.pos
}

// Field returns the next line. Running out of lines in the middle of a
// record is a FormatError naming the missing field.
func (r *Reader) Field(name string) (string, error) {
	if r.pos >= len(r.lines) {
		return "", &FormatError{File: r.file, Line: r.pos, Msg: "missing " + name}
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

// UntilTerminator returns the lines up to the next "-" line, which is consumed.
func (r *Reader) UntilTerminator(name string) ([]string, error) {
	var out []string
	for {
		line, err := r.Field(name + " terminator")
		if err != nil {
			return nil, err
		}
		if line == "-" {
			return out, nil
		}
		out = append(out, line)
	}
}
