package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/volunteerhub/matchd/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording notification pairs", func() {
			d := dedupe.NewInMemoryDeduper()
			ctx := context.Background()

			Convey("And the pair is new", func() {
				seen := d.SeenAndRecord(ctx, "volunteer-001", "event-001")

				Convey("Then it should not have been seen before", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the same pair is recorded twice", func() {
				first := d.SeenAndRecord(ctx, "volunteer-001", "event-001")
				second := d.SeenAndRecord(ctx, "volunteer-001", "event-001")

				Convey("Then only the first record is new", func() {
					So(first, ShouldBeFalse)
					So(second, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the same volunteer matches a different event", func() {
				first := d.SeenAndRecord(ctx, "volunteer-001", "event-001")
				other := d.SeenAndRecord(ctx, "volunteer-001", "event-002")

				Convey("Then both pairs are recorded", func() {
					So(first, ShouldBeFalse)
					So(other, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 2)
				})
			})

			Convey("And different volunteers match the same event", func() {
				first := d.SeenAndRecord(ctx, "volunteer-001", "event-001")
				other := d.SeenAndRecord(ctx, "volunteer-002", "event-001")

				Convey("Then both pairs are recorded", func() {
					So(first, ShouldBeFalse)
					So(other, ShouldBeFalse)
				})
			})
		})

		Convey("When unrecording a pair", func() {
			d := dedupe.NewInMemoryDeduper()
			ctx := context.Background()

			d.SeenAndRecord(ctx, "volunteer-001", "event-001")
			d.Unrecord(ctx, "volunteer-001", "event-001")

			Convey("Then the pair can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "volunteer-001", "event-001"), ShouldBeFalse)
			})
		})

		Convey("When unrecording a pair that was never recorded", func() {
			d := dedupe.NewInMemoryDeduper()
			d.Unrecord(context.Background(), "volunteer-404", "event-404")

			Convey("Then size stays at zero", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestInMemoryDeduperBounded(t *testing.T) {
	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When recording beyond the bound", func() {
			So(d.SeenAndRecord(ctx, "v1", "e1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "v2", "e1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "v3", "e1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "v4", "e1"), ShouldBeFalse)

			Convey("Then the oldest pair is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				// v1/e1 was evicted, so it records as new again.
				So(d.SeenAndRecord(ctx, "v1", "e1"), ShouldBeFalse)
				// v4/e1 is still present.
				So(d.SeenAndRecord(ctx, "v4", "e1"), ShouldBeTrue)
			})
		})

		Convey("When a pair was unrecorded before eviction", func() {
			So(d.SeenAndRecord(ctx, "v1", "e1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "v2", "e1"), ShouldBeFalse)
			d.Unrecord(ctx, "v1", "e1")
			So(d.SeenAndRecord(ctx, "v3", "e1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "v4", "e1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "v5", "e1"), ShouldBeFalse)

			Convey("Then eviction skips the stale key and drops the next oldest", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "v2", "e1"), ShouldBeFalse) // evicted, new again
			})
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given concurrent batch workers sharing a deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		const workers = 8
		const pairs = 200

		var wg sync.WaitGroup
		var mu sync.Mutex
		newCount := 0

		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < pairs; i++ {
					volunteer := fmt.Sprintf("volunteer-%03d", i)
					if !d.SeenAndRecord(ctx, volunteer, "event-001") {
						mu.Lock()
						newCount++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each pair is recorded exactly once", func() {
			So(newCount, ShouldEqual, pairs)
			So(d.Size(), ShouldEqual, pairs)
		})
	})
}
