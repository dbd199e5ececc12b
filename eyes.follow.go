package eyes

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Follow matches the lines of a growing file. Existing lines are delivered
// first, then new lines as they are appended. A partial last line is held
// back until its terminator arrives. If the file shrinks it is read again
// from the start. If the path is replaced by another file, for example by
// a rename during log rotation, the new file is opened and read from the
// start.
//
// The channel is closed when ctx is cancelled. Changes are detected with
// fsnotify; if a watcher cannot be created, the file is polled.
func (p *Pattern) Follow(ctx context.Context, path string) (<-chan LineResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewFollowError(path, err)
	}

	logger := p.engine.logger.With(zap.String(LogFieldPath, path))

	// Watch the directory so that editors replacing the file are seen too.
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err = watcher.Add(filepath.Dir(path)); err != nil {
			watcher.Close()
			watcher = nil
		}
	}
	if watcher == nil {
		logger.Warn(LogMsgFollowPolling, zap.Error(err))
	}

	ch := make(chan LineResult, DefaultFollowBufferSize)
	f := &follower{
		pattern: p,
		path:    path,
		file:    file,
		reader:  bufio.NewReader(file),
		out:     ch,
		logger:  logger,
	}
	go f.run(ctx, watcher)
	return ch, nil
}

// follower holds the read state of one followed file.
type follower struct {
	pattern *Pattern
	path    string
	file    *os.File
	reader  *bufio.Reader
	offset  int64
	pending []byte // Partial line awaiting its terminator
	line    int
	out     chan<- LineResult
	logger  *zap.Logger
}

func (f *follower) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(f.out)
	defer func() { f.file.Close() }()
	if watcher != nil {
		defer watcher.Close()
	}

	f.logger.Info(LogMsgFollowStart)
	defer f.logger.Info(LogMsgFollowStop, zap.Int(LogFieldLines, f.line))

	if !f.drain(ctx) {
		return
	}
	if watcher != nil {
		f.watch(ctx, watcher)
		return
	}
	f.poll(ctx)
}

// watch reads new data on every write or create event for the file.
func (f *follower) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	baseName := filepath.Base(f.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !f.refresh(ctx) {
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn(LogMsgFollowReadFailed, zap.Error(err))
		}
	}
}

// poll reads new data on a fixed interval.
func (f *follower) poll(ctx context.Context) {
	ticker := time.NewTicker(DefaultFollowPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !f.refresh(ctx) {
				return
			}
		}
	}
}

// refresh reopens a replaced file, rewinds on truncation and drains new lines.
func (f *follower) refresh(ctx context.Context) bool {
	info, err := f.file.Stat()
	if err != nil {
		f.logger.Warn(LogMsgFollowReadFailed, zap.Error(err))
		return true
	}

	// A missing path means a replacement is in progress; wait for its create.
	if current, err := os.Stat(f.path); err == nil && !os.SameFile(info, current) {
		if !f.reopen() {
			return true
		}
		return f.drain(ctx)
	}

	if info.Size() < f.offset {
		f.logger.Info(LogMsgFollowTruncated)
		if _, err := f.file.Seek(0, io.SeekStart); err != nil {
			f.logger.Warn(LogMsgFollowReadFailed, zap.Error(err))
			return true
		}
		f.offset = 0
		f.pending = nil
		f.reader.Reset(f.file)
	}
	return f.drain(ctx)
}

// reopen switches to the file now found at the path and reads it from the start.
func (f *follower) reopen() bool {
	file, err := os.Open(f.path)
	if err != nil {
		f.logger.Warn(LogMsgFollowReadFailed, zap.Error(err))
		return false
	}
	f.logger.Info(LogMsgFollowReplaced)

	f.file.Close()
	f.file = file
	f.offset = 0
	f.pending = nil
	f.reader.Reset(file)
	return true
}

// drain emits every complete line available. It returns false once ctx is done.
func (f *follower) drain(ctx context.Context) bool {
	for {
		chunk, err := f.reader.ReadBytes('\n')
		if len(chunk) > 0 {
			f.offset += int64(len(chunk))
			if chunk[len(chunk)-1] != '\n' {
				f.pending = append(f.pending, chunk...)
			} else {
				text := string(append(f.pending, chunk[:len(chunk)-1]...))
				f.pending = nil
				if !f.emit(ctx, strings.TrimSuffix(text, "\r")) {
					return false
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.logger.Warn(LogMsgFollowReadFailed, zap.Error(err))
			}
			return ctx.Err() == nil
		}
	}
}

func (f *follower) emit(ctx context.Context, text string) bool {
	f.line++
	result := f.pattern.matchLine(ctx, f.line, text)
	select {
	case f.out <- result:
		return true
	case <-ctx.Done():
		return false
	}
}
