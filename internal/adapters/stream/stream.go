// Package stream provides a channel-based source of raw record lines.
//
// It adapts a byte stream (file or stdin) into the consumption contract the
// cleaner wants: a channel of lines with blank lines and `#` diagnostics
// already filtered out, so skipped lines never touch the statistics.
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Default scanner configuration constants.
const (
	defaultBufferSize  = 64 * 1024
	defaultMaxLineSize = 1024 * 1024
	defaultChannelSize = 256
)

// Line is one raw record line with its position in the input.
type Line struct {
	Number int
	Text   string
}

// Source delivers filtered input lines over a channel.
type Source struct {
	reader      io.Reader
	closer      io.Closer
	bufferSize  int
	maxLineSize int
	channelSize int

	mu  sync.Mutex
	err error
}

// NewSource wraps an io.Reader.
func NewSource(r io.Reader, opts ...Option) *Source {
	s := &Source{
		reader:      r,
		bufferSize:  defaultBufferSize,
		maxLineSize: defaultMaxLineSize,
		channelSize: defaultChannelSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a source for path, or stdin when path is empty.
func Open(path string, opts ...Option) (*Source, error) {
	if path == "" {
		return NewSource(os.Stdin, opts...), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenInput, err)
	}
	s := NewSource(f, opts...)
	s.closer = f
	return s, nil
}

// Lines returns a channel that receives input lines as they are read. The
// channel is closed at end of input, on read error, or when ctx is done;
// check Err afterwards. Blank lines and lines starting with '#' are skipped.
func (s *Source) Lines(ctx context.Context) <-chan Line {
	out := make(chan Line, s.channelSize)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(s.reader)
		scanner.Buffer(make([]byte, s.bufferSize), s.maxLineSize)

		number := 0
		for scanner.Scan() {
			number++
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			select {
			case out <- Line{Number: number, Text: text}:
			case <-ctx.Done():
				s.setErr(ctx.Err())
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.setErr(fmt.Errorf("%w: %w", ErrReadInput, err))
		}
	}()

	return out
}

// Err reports the first error encountered while reading.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Source) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
