package log

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// fileHook is a logrus.Hook that appends formatted entries to a local file.
// Fire only enqueues; a background goroutine started by loop owns the
// actual write so a slow disk never blocks the logging call site.
type fileHook struct {
	path   string
	levels []logrus.Level

	w  io.WriteCloser
	bw *bufio.Writer

	loglines  chan []byte
	formatter logrus.Formatter
}

// Levels implements logrus.Hook.
func (h *fileHook) Levels() []logrus.Level { return h.levels }

// Fire implements logrus.Hook, formatting entry and queueing it for the
// background writer started by loop.
func (h *fileHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.loglines <- b
	return nil
}

// loop drains lines off the returned channel onto bw until ctx is done,
// flushing after every write and closing w on the way out.
func (h *fileHook) loop(ctx context.Context) chan []byte {
	ch := make(chan []byte, 100)
	go func() {
		defer func() { _ = h.w.Close() }()
		for {
			select {
			case line := <-ch:
				_, _ = h.bw.Write(line)
				_ = h.bw.Flush()
			case <-ctx.Done():
				for {
					select {
					case line := <-ch:
						_, _ = h.bw.Write(line)
					default:
						_ = h.bw.Flush()
						return
					}
				}
			}
		}
	}()
	return ch
}

// FileHookFromConfigLine builds a logrus.Hook that appends to a local file,
// from a comma-separated "file=path,level=name" configuration line. The
// returned hook is already running its background writer, scoped to ctx.
func FileHookFromConfigLine(ctx context.Context, logger *logrus.Logger, line string) (logrus.Hook, error) {
	parts := strings.Split(line, ",")

	key, path, hasEq := strings.Cut(parts[0], "=")
	if key != "file" || !hasEq {
		return nil, fmt.Errorf(
			"logfile configuration should be in the form `file=path-to-local-file` but is `%s`", line)
	}
	if path == "" {
		return nil, errors.New("filepath must not be empty")
	}

	levels := logrus.AllLevels
	for _, part := range parts[1:] {
		k, v, hasEq := strings.Cut(part, "=")
		switch k {
		case "level":
			if !hasEq || v == "" {
				return nil, fmt.Errorf("invalid logfile level config %q", part)
			}
			lvls, err := parseLevels(v)
			if err != nil {
				return nil, err
			}
			levels = lvls
		default:
			return nil, fmt.Errorf("unknown logfile config key %s", k)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open logfile %s: %w", path, err)
	}

	hook := &fileHook{
		path:      path,
		levels:    levels,
		w:         f,
		bw:        bufio.NewWriter(f),
		formatter: new(logrus.TextFormatter),
	}
	hook.loglines = hook.loop(ctx)
	return hook, nil
}
