package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/plume/internal/domain/dedupe"
	"github.com/okian/plume/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func key(ts, engine string) model.Key {
	return model.Key{Timestamp: ts, EngineID: engine}
}

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording keys", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithCapacityHint(16))

			Convey("And the key is new", func() {
				seen := d.SeenAndRecord(context.Background(), key("2026-01-01T00:00:00Z", "TRE-001"))

				Convey("Then it should return false and record the key", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the key was already seen", func() {
				d.SeenAndRecord(context.Background(), key("2026-01-01T00:00:00Z", "TRE-001"))
				seen := d.SeenAndRecord(context.Background(), key("2026-01-01T00:00:00Z", "TRE-001"))

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And keys share a timestamp but not an engine", func() {
				first := d.SeenAndRecord(context.Background(), key("2026-01-01T00:00:00Z", "TRE-001"))
				second := d.SeenAndRecord(context.Background(), key("2026-01-01T00:00:00Z", "TRE-002"))

				Convey("Then both should be newly recorded", func() {
					So(first, ShouldBeFalse)
					So(second, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 2)
				})
			})
		})

		Convey("When unrecording a key", func() {
			d := dedupe.NewInMemoryDeduper()
			k := key("2026-01-01T00:00:00Z", "TRE-003")
			d.SeenAndRecord(context.Background(), k)
			d.Unrecord(context.Background(), k)

			Convey("Then the key can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(context.Background(), k), ShouldBeFalse)
			})
		})

		Convey("When recording concurrently", func() {
			d := dedupe.NewInMemoryDeduper()
			const workers = 8
			const perWorker = 100

			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						d.SeenAndRecord(context.Background(), key(fmt.Sprintf("ts-%d", i), "TRE-001"))
					}
				}()
			}
			wg.Wait()

			Convey("Then each distinct key is recorded exactly once", func() {
				So(d.Size(), ShouldEqual, perWorker)
			})
		})
	})
}
