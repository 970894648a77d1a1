package stream_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/plume/internal/adapters/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func collect(ctx context.Context, src *stream.Source) []stream.Line {
	var lines []stream.Line
	for line := range src.Lines(ctx) {
		lines = append(lines, line)
	}
	return lines
}

func TestSource(t *testing.T) {
	Convey("Given input with blanks and diagnostics", t, func() {
		input := strings.Join([]string{
			`{"a":1}`,
			"",
			"# Generating 100 telemetry records...",
			"   ",
			`{"b":2}`,
			"#done",
		}, "\n")
		src := stream.NewSource(strings.NewReader(input))

		lines := collect(context.Background(), src)

		Convey("Then only record lines are delivered", func() {
			So(len(lines), ShouldEqual, 2)
			So(lines[0].Text, ShouldEqual, `{"a":1}`)
			So(lines[1].Text, ShouldEqual, `{"b":2}`)
		})

		Convey("Then line numbers reflect positions in the raw input", func() {
			So(lines[0].Number, ShouldEqual, 1)
			So(lines[1].Number, ShouldEqual, 5)
		})

		Convey("Then no error is reported", func() {
			So(src.Err(), ShouldBeNil)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		// Unbuffered channel forces the reader goroutine to observe ctx.
		src := stream.NewSource(strings.NewReader("{\"a\":1}\n{\"b\":2}\n"), stream.WithChannelSize(1))

		for range src.Lines(ctx) { //nolint:revive // draining
		}

		Convey("Then the source may surface the cancellation", func() {
			// Either the lines were already buffered or the context error is set;
			// both are consistent shutdown outcomes.
			if err := src.Err(); err != nil {
				So(err, ShouldWrap, context.Canceled)
			}
		})
	})

	Convey("Given a file path", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "input.jsonl")
		So(os.WriteFile(path, []byte("{\"a\":1}\n# skip\n"), 0o600), ShouldBeNil)

		src, err := stream.Open(path)
		So(err, ShouldBeNil)
		defer src.Close()

		Convey("Then its lines are delivered", func() {
			lines := collect(context.Background(), src)
			So(len(lines), ShouldEqual, 1)
		})
	})

	Convey("Given a missing file path", t, func() {
		_, err := stream.Open(filepath.Join(t.TempDir(), "absent.jsonl"))

		Convey("Then opening fails with the open sentinel", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, stream.ErrOpenInput)
		})
	})
}
