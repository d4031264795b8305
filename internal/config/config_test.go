package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/volunteerhub/matchd/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.SkillWeight, convey.ShouldEqual, 0.5)
			convey.So(cfg.DistanceWeight, convey.ShouldEqual, 0.2)
			convey.So(cfg.UrgencyWeight, convey.ShouldEqual, 0.3)
			convey.So(cfg.MaxDistanceMiles, convey.ShouldEqual, 50)
			convey.So(cfg.CacheTTLHours, convey.ShouldEqual, 24)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.BatchQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.NotifyThreshold, convey.ShouldEqual, 50)
			convey.So(cfg.NotifyTopN, convey.ShouldEqual, 3)
		})

		convey.Convey("Then the provider should be unauthenticated by default", func() {
			convey.So(cfg.MapsAPIKey, convey.ShouldBeEmpty)
			convey.So(cfg.MapsBaseURL, convey.ShouldNotBeEmpty)
		})
	})
}
