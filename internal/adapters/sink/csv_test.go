package sink_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/plume/internal/adapters/sink"
	"github.com/okian/plume/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCSVSink(t *testing.T) {
	Convey("Given clean readings and a nested destination", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "data", "telemetry_clean.csv")
		out := sink.NewCSVSink(sink.WithPath(path))

		records := []model.Reading{
			{
				Timestamp:       "2026-01-01T00:00:00Z",
				EngineID:        "TRE-001",
				ChamberPressure: model.Float(245.5),
				FuelFlow:        model.Float(120),
				Temperature:     model.Float(3100),
			},
			{
				Timestamp: "2026-01-01T00:00:03Z",
				EngineID:  "TRE-002",
				FuelFlow:  model.Float(99.5),
			},
		}

		n, err := out.Write(context.Background(), records)

		Convey("Then the parent directory is created and rows written", func() {
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			f, err := os.Open(path)
			So(err, ShouldBeNil)
			defer f.Close()

			rows, err := csv.NewReader(f).ReadAll()
			So(err, ShouldBeNil)

			So(rows[0], ShouldResemble, []string{"timestamp", "engine_id", "chamber_pressure", "fuel_flow", "temperature"})
			So(rows[1], ShouldResemble, []string{"2026-01-01T00:00:00Z", "TRE-001", "245.5", "120", "3100"})

			Convey("And absent sensor values are empty cells", func() {
				So(rows[2], ShouldResemble, []string{"2026-01-01T00:00:03Z", "TRE-002", "", "99.5", ""})
			})
		})
	})

	Convey("Given no records", t, func() {
		path := filepath.Join(t.TempDir(), "empty.csv")
		out := sink.NewCSVSink(sink.WithPath(path))

		n, err := out.Write(context.Background(), nil)

		Convey("Then only the header is written", func() {
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "timestamp,engine_id,chamber_pressure,fuel_flow,temperature\n")
		})
	})

	Convey("Given an unwritable destination", t, func() {
		dir := t.TempDir()
		// A file standing where the directory should be.
		blocker := filepath.Join(dir, "blocked")
		So(os.WriteFile(blocker, []byte("x"), 0o600), ShouldBeNil)

		out := sink.NewCSVSink(sink.WithPath(filepath.Join(blocker, "out.csv")))
		_, err := out.Write(context.Background(), nil)

		Convey("Then the write fails with a process-level error", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, sink.ErrCreateOutputDir)
		})
	})
}
