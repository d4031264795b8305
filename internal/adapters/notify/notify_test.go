package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
	notify "github.com/volunteerhub/matchd/internal/adapters/notify"
	model "github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/pkg/logger"
)

func init() {
	if err := logger.Init("text"); err != nil {
		panic(err)
	}
}

func matchResult(volunteerID, eventID, name string, score float64) model.MatchResult {
	return model.MatchResult{
		VolunteerID: volunteerID,
		EventID:     eventID,
		EventName:   name,
		Score:       score,
	}
}

func TestInMemoryNotifier(t *testing.T) {
	Convey("Given an in-memory notifier", t, func() {
		ctx := context.Background()
		clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		notifier := notify.NewInMemory(notify.WithClock(clock))

		Convey("When a match is notified", func() {
			notification, created, err := notifier.NotifyMatch(ctx,
				matchResult("volunteer-001", "event-001", "Beach Cleanup Drive", 87.5))

			Convey("Then a notification should be recorded", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeTrue)
				So(notification.ID, ShouldNotBeEmpty)
				So(notification.UserID, ShouldEqual, "volunteer-001")
				So(notification.EventID, ShouldEqual, "event-001")
				So(notification.Type, ShouldEqual, model.NotificationTypeMatch)
				So(notification.Read, ShouldBeFalse)
			})

			Convey("Then the message should carry the event and score", func() {
				So(err, ShouldBeNil)
				So(notification.Message, ShouldEqual, "New match: Beach Cleanup Drive (87.5% match)")
			})

			Convey("Then the timestamp should come from the clock", func() {
				So(err, ShouldBeNil)
				So(notification.CreatedAt.Equal(clock.Now().UTC()), ShouldBeTrue)
			})
		})

		Convey("When the same pair is notified twice", func() {
			_, first, err1 := notifier.NotifyMatch(ctx,
				matchResult("volunteer-001", "event-001", "Beach Cleanup Drive", 87.5))
			_, second, err2 := notifier.NotifyMatch(ctx,
				matchResult("volunteer-001", "event-001", "Beach Cleanup Drive", 91.2))

			Convey("Then only the first should create a notification", func() {
				So(err1, ShouldBeNil)
				So(first, ShouldBeTrue)
				So(err2, ShouldBeNil)
				So(second, ShouldBeFalse)
			})

			Convey("Then the listing should hold a single row", func() {
				list, err := notifier.ListForUser(ctx, "volunteer-001")
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)
			})
		})

		Convey("When the same volunteer matches different events", func() {
			_, c1, _ := notifier.NotifyMatch(ctx,
				matchResult("volunteer-001", "event-001", "Beach Cleanup Drive", 87.5))
			_, c2, _ := notifier.NotifyMatch(ctx,
				matchResult("volunteer-001", "event-002", "Food Bank Volunteer Day", 66.2))

			Convey("Then both should be recorded in order", func() {
				So(c1, ShouldBeTrue)
				So(c2, ShouldBeTrue)
				list, err := notifier.ListForUser(ctx, "volunteer-001")
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 2)
				So(list[0].EventID, ShouldEqual, "event-001")
				So(list[1].EventID, ShouldEqual, "event-002")
			})

			Convey("Then the total count should cover all volunteers", func() {
				So(c1, ShouldBeTrue)
				So(c2, ShouldBeTrue)
				So(notifier.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When listing a volunteer with no notifications", func() {
			list, err := notifier.ListForUser(ctx, "volunteer-999")

			Convey("Then the listing should be empty", func() {
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})
	})
}
