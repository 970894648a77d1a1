package cleaner_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/okian/plume/internal/adapters/stream"
	"github.com/okian/plume/internal/cleaner"
	"github.com/okian/plume/internal/generator"
	"github.com/okian/plume/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func runClean(input string) cleaner.Result {
	proc := cleaner.New()
	result, err := proc.Run(context.Background(), stream.NewSource(strings.NewReader(input)))
	So(err, ShouldBeNil)
	return result
}

func TestCleaningRules(t *testing.T) {
	Convey("Given a record with negative chamber pressure", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "chamber_pressure": -40, "fuel_flow": 10, "temperature": 3000}`)

		Convey("Then the pressure is repaired to its absolute value", func() {
			So(len(result.Records), ShouldEqual, 1)
			So(*result.Records[0].ChamberPressure, ShouldEqual, 40)
			So(result.Stats.Corrected, ShouldEqual, 1)
			So(result.Stats.Valid, ShouldEqual, 1)
			So(result.Stats.Dropped, ShouldEqual, 0)
		})
	})

	Convey("Given a record with temperature below absolute zero", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "temperature": -300}`)

		Convey("Then the record is dropped entirely, not corrected", func() {
			So(len(result.Records), ShouldEqual, 0)
			So(result.Stats.Dropped, ShouldEqual, 1)
			So(result.Stats.Corrected, ShouldEqual, 0)
			So(result.Stats.Valid, ShouldEqual, 0)
		})
	})

	Convey("Given a record with an extreme but possible temperature", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "temperature": 7500}`)

		Convey("Then the record is retained unmodified", func() {
			So(len(result.Records), ShouldEqual, 1)
			So(*result.Records[0].Temperature, ShouldEqual, 7500)
			So(result.Stats.Corrected, ShouldEqual, 0)
		})
	})

	Convey("Given a record with zero fuel flow", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "fuel_flow": 0}`)

		Convey("Then the flow is floored at 0.1", func() {
			So(len(result.Records), ShouldEqual, 1)
			So(*result.Records[0].FuelFlow, ShouldEqual, 0.1)
			So(result.Stats.Corrected, ShouldEqual, 1)
		})
	})

	Convey("Given a record with two correctable fields", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "chamber_pressure": -12.5, "fuel_flow": 0}`)

		Convey("Then corrections count once per record", func() {
			So(len(result.Records), ShouldEqual, 1)
			So(*result.Records[0].ChamberPressure, ShouldEqual, 12.5)
			So(*result.Records[0].FuelFlow, ShouldEqual, 0.1)
			So(result.Stats.Corrected, ShouldEqual, 1)
		})
	})

	Convey("Given a record missing engine_id", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "chamber_pressure": 200}`)

		Convey("Then it is dropped with no correction recorded", func() {
			So(len(result.Records), ShouldEqual, 0)
			So(result.Stats.Dropped, ShouldEqual, 1)
			So(result.Stats.Corrected, ShouldEqual, 0)
		})
	})

	Convey("Given a record with an invalid timestamp", t, func() {
		result := runClean(`{"timestamp": "not-a-time", "engine_id": "TRE-001", "temperature": 3000}`)

		Convey("Then it is dropped, not merely warned about", func() {
			So(len(result.Records), ShouldEqual, 0)
			So(result.Stats.Dropped, ShouldEqual, 1)
		})
	})

	Convey("Given zone-less ISO-8601 timestamps", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00.123456", "engine_id": "TRE-001"}`)

		Convey("Then the record is accepted", func() {
			So(result.Stats.Valid, ShouldEqual, 1)
		})
	})

	Convey("Given a malformed line", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", engine oops`)

		Convey("Then it counts as a parse error, not a drop", func() {
			So(result.Stats.ParseErrors, ShouldEqual, 1)
			So(result.Stats.Dropped, ShouldEqual, 0)
			So(result.Stats.Total, ShouldEqual, 0)
		})
	})

	Convey("Given a non-coercible numeric value", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "fuel_flow": "abundant"}`)

		Convey("Then the record is dropped as bad numeric", func() {
			So(result.Stats.Dropped, ShouldEqual, 1)
			So(result.Stats.ParseErrors, ShouldEqual, 0)
		})
	})

	Convey("Given a numeric value encoded as a string", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "fuel_flow": "75.5"}`)

		Convey("Then the value is coerced and accepted", func() {
			So(len(result.Records), ShouldEqual, 1)
			So(*result.Records[0].FuelFlow, ShouldEqual, 75.5)
		})
	})

	Convey("Given sensor dropout on an otherwise valid record", t, func() {
		result := runClean(`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "temperature": 3000}`)

		Convey("Then absent fields stay absent rather than reconstructed", func() {
			So(len(result.Records), ShouldEqual, 1)
			So(result.Records[0].ChamberPressure, ShouldBeNil)
			So(result.Records[0].FuelFlow, ShouldBeNil)
			So(*result.Records[0].Temperature, ShouldEqual, 3000)
		})
	})
}

func TestDeduplication(t *testing.T) {
	Convey("Given two records sharing a key with different payloads", t, func() {
		input := strings.Join([]string{
			`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "fuel_flow": 100}`,
			`{"timestamp": "2026-01-01T00:00:05Z", "engine_id": "TRE-002", "fuel_flow": 90}`,
			`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "fuel_flow": 55}`,
		}, "\n")
		result := runClean(input)

		Convey("Then the first occurrence wins", func() {
			So(len(result.Records), ShouldEqual, 2)
			So(*result.Records[0].FuelFlow, ShouldEqual, 100)
			So(result.Stats.Duplicates, ShouldEqual, 1)
		})

		Convey("Then validity counts both copies; only output excludes the duplicate", func() {
			So(result.Stats.Valid, ShouldEqual, 3)
			So(result.Stats.OutputRecords(), ShouldEqual, 2)
		})

		Convey("Then output preserves original stream order", func() {
			So(result.Records[0].EngineID, ShouldEqual, "TRE-001")
			So(result.Records[1].EngineID, ShouldEqual, "TRE-002")
		})
	})
}

func TestStatsReport(t *testing.T) {
	Convey("Given a mixed stream", t, func() {
		input := strings.Join([]string{
			`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "fuel_flow": 100}`,
			`not json at all`,
			`{"engine_id": "TRE-001"}`,
			`{"timestamp": "2026-01-01T00:00:01Z", "engine_id": "TRE-002", "chamber_pressure": -10}`,
			`{"timestamp": "2026-01-01T00:00:00Z", "engine_id": "TRE-001", "fuel_flow": 100}`,
			`# a diagnostic line`,
		}, "\n")
		result := runClean(input)

		Convey("Then the counters reconcile", func() {
			So(result.Stats.Total, ShouldEqual, 4)
			So(result.Stats.Valid, ShouldEqual, 3)
			So(result.Stats.Dropped, ShouldEqual, 1)
			So(result.Stats.Corrected, ShouldEqual, 1)
			So(result.Stats.ParseErrors, ShouldEqual, 1)
			So(result.Stats.Duplicates, ShouldEqual, 1)
			So(result.Stats.Valid+result.Stats.Dropped, ShouldEqual, result.Stats.Total)
		})

		Convey("Then the rates derive from the counters", func() {
			So(result.Stats.SuccessRate(), ShouldEqual, 75)
			So(result.Stats.OutputRate(), ShouldEqual, 50)
		})
	})

	Convey("Given an empty stream", t, func() {
		result := runClean("")

		Convey("Then rates are zero rather than dividing by zero", func() {
			So(result.Stats.SuccessRate(), ShouldEqual, 0)
			So(result.Stats.OutputRate(), ShouldEqual, 0)
		})
	})
}

func TestIdempotentCleaning(t *testing.T) {
	Convey("Given generator output cleaned once", t, func() {
		gen := generator.New(generator.WithSeed(1234))
		readings, err := gen.Generate(context.Background(), 300)
		So(err, ShouldBeNil)

		var raw bytes.Buffer
		So(generator.WriteJSONL(&raw, readings), ShouldBeNil)

		first := runClean(raw.String())

		Convey("When the clean output is cleaned again", func() {
			var relined bytes.Buffer
			So(generator.WriteJSONL(&relined, first.Records), ShouldBeNil)

			second := runClean(relined.String())

			Convey("Then the second pass changes nothing", func() {
				So(second.Stats.Corrected, ShouldEqual, 0)
				So(second.Stats.Dropped, ShouldEqual, 0)
				So(second.Stats.ParseErrors, ShouldEqual, 0)
				So(second.Stats.Duplicates, ShouldEqual, 0)
				So(len(second.Records), ShouldEqual, len(first.Records))
			})
		})
	})
}
