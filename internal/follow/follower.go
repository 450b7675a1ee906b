// Package follow reads newline-delimited records from files and keeps
// reading as the files grow.
package follow

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/axship/internal/ports"
	"github.com/bft-labs/axship/pkg/log"
)

// MaxLineSize bounds a single record. Longer lines are skipped and logged,
// in both Lines and Follower.
const MaxLineSize = 1 << 20

// LineHandler receives one record without its line terminator.
// Empty lines are skipped. A returned error stops reading.
type LineHandler func(line string) error

// Lines calls fn for every non-empty line of r until EOF.
func Lines(r io.Reader, fn LineHandler, logger ports.Logger) error {
	logger = log.With(logger, log.String("component", "follow"))
	br := bufio.NewReaderSize(r, 64*1024)

	var line []byte
	oversized := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !oversized {
			if len(line)+len(bytes.TrimSuffix(chunk, []byte("\n"))) > MaxLineSize {
				oversized = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		if oversized {
			logger.Warn("skipping oversized line", log.Int("limit", MaxLineSize))
			oversized = false
		} else if herr := deliver(bytes.TrimSuffix(line, []byte("\n")), fn); herr != nil {
			return herr
		}
		line = line[:0]

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// deliver passes a line without its terminator to h, skipping empty lines.
func deliver(b []byte, h LineHandler) error {
	line := strings.TrimSuffix(string(b), "\r")
	if line == "" {
		return nil
	}
	return h(line)
}

// Follower reads files from the beginning, then delivers lines appended to
// them until its context ends. Truncated or replaced files are read again from
// the start.
type Follower struct {
	tails   []*tail
	handler LineHandler
	logger  ports.Logger
}

// NewFollower creates a follower for the given paths.
func NewFollower(paths []string, handler LineHandler, logger ports.Logger) (*Follower, error) {
	if len(paths) == 0 {
		return nil, errors.New("follow: no files given")
	}
	tails := make([]*tail, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("follow %s: %w", p, err)
		}
		tails = append(tails, &tail{path: abs})
	}
	logger = log.With(logger, log.String("component", "follow"))
	for _, t := range tails {
		t.logger = logger
	}
	return &Follower{
		tails:   tails,
		handler: handler,
		logger:  logger,
	}, nil
}

// Run blocks until ctx ends or the handler fails. A trailing line without a
// terminator is delivered when ctx ends.
func (f *Follower) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories so files created later are picked up.
	byPath := make(map[string]*tail, len(f.tails))
	watched := make(map[string]bool)
	for _, t := range f.tails {
		byPath[t.path] = t
		dir := filepath.Dir(t.path)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
	}

	for _, t := range f.tails {
		if err := t.drain(f.handler); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			for _, t := range f.tails {
				if err := t.flushPartial(f.handler); err != nil {
					return err
				}
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			t, ok := byPath[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				f.logger.Debug("file replaced", log.String("path", t.path))
				t.reset()
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := t.drain(f.handler); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watcher error", log.Err(err))
		}
	}
}

// tail tracks how far a file has been read.
type tail struct {
	path    string
	offset  int64
	partial []byte

	// skipping is set while the rest of an oversized line is discarded.
	skipping bool
	logger   ports.Logger
}

func (t *tail) reset() {
	t.offset = 0
	t.partial = nil
	t.skipping = false
}

func (t *tail) skip() {
	t.partial = nil
	t.logger.Warn("skipping oversized line",
		log.String("path", t.path),
		log.Int("limit", MaxLineSize),
	)
}

// drain reads from the last offset to EOF and emits complete lines.
func (t *tail) drain(h LineHandler) error {
	file, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", t.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", t.path, err)
	}
	if info.Size() < t.offset {
		t.reset()
	}
	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek %s: %w", t.path, err)
	}

	buf := make([]byte, 32*1024)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			t.offset += int64(n)
			if herr := t.emit(buf[:n], h); herr != nil {
				return herr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", t.path, err)
		}
	}
}

func (t *tail) emit(chunk []byte, h LineHandler) error {
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, '\n')
		if i < 0 {
			if t.skipping {
				return nil
			}
			if len(t.partial)+len(chunk) > MaxLineSize {
				t.skip()
				t.skipping = true
				return nil
			}
			t.partial = append(t.partial, chunk...)
			return nil
		}

		piece := chunk[:i]
		chunk = chunk[i+1:]
		if t.skipping {
			t.skipping = false
			continue
		}
		if len(t.partial)+len(piece) > MaxLineSize {
			t.skip()
			continue
		}
		line := append(t.partial, piece...)
		t.partial = nil
		if err := deliver(line, h); err != nil {
			return err
		}
	}
	return nil
}

func (t *tail) flushPartial(h LineHandler) error {
	line := t.partial
	t.partial = nil
	if t.skipping {
		t.skipping = false
		return nil
	}
	return deliver(line, h)
}
