package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	service "github.com/volunteerhub/matchd/internal/app"
	"github.com/volunteerhub/matchd/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init("text")
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(5_000),
			service.WithCacheTTL(time.Hour),
			service.WithCacheCapacity(10_000),
			service.WithMaxDistance(25),
			service.WithNotifyLimit(5),
			service.WithNotifyThreshold(60),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And it should serve the seeded directory", func() {
				stats := svc.GetStats()
				So(stats["volunteers"], ShouldEqual, 2)
				So(stats["events"], ShouldEqual, 3)
			})

			Convey("And it should run on the fallback resolver without a key", func() {
				stats := svc.GetStats()
				So(stats["resolver"], ShouldEqual, "fallback")
				So(stats["resolverConfigured"], ShouldEqual, false)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping again should be safe", func() {
				svc.Stop()
			})
		})
	})
}
