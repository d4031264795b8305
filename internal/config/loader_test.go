package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/volunteerhub/matchd/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTLHours, convey.ShouldEqual, 24)
				convey.So(cfg.MaxDistanceMiles, convey.ShouldEqual, 50)
				convey.So(cfg.SkillWeight, convey.ShouldEqual, 0.5)
				convey.So(cfg.DistanceWeight, convey.ShouldEqual, 0.2)
				convey.So(cfg.UrgencyWeight, convey.ShouldEqual, 0.3)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MATCHD_ADDR", ":9090")
			_ = os.Setenv("MATCHD_CACHE_TTL_HOURS", "12")
			_ = os.Setenv("MATCHD_MAX_DISTANCE_MILES", "25.5")
			_ = os.Setenv("MATCHD_SKILL_WEIGHT", "0.6")
			_ = os.Setenv("MATCHD_WORKER_COUNT", "16")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CacheTTLHours, convey.ShouldEqual, 12)
				convey.So(cfg.MaxDistanceMiles, convey.ShouldEqual, 25.5)
				convey.So(cfg.SkillWeight, convey.ShouldEqual, 0.6)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
cache_ttl_hours: 48
max_distance_miles: 100
maps_api_key: "test-key"
notify_top_n: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MATCHD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CacheTTLHours, convey.ShouldEqual, 48)
				convey.So(cfg.MaxDistanceMiles, convey.ShouldEqual, 100)
				convey.So(cfg.MapsAPIKey, convey.ShouldEqual, "test-key")
				convey.So(cfg.NotifyTopN, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
cache_ttl_hours: 48
worker_count: 8
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MATCHD_CONFIG", tmpFile)
			_ = os.Setenv("MATCHD_ADDR", ":7070")      // This should override the file
			_ = os.Setenv("MATCHD_WORKER_COUNT", "32") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")     // Overridden by env
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)   // Overridden by env
				convey.So(cfg.CacheTTLHours, convey.ShouldEqual, 48) // From file
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
notify_threshold: 60
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MATCHD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")        // From file
				convey.So(cfg.NotifyThreshold, convey.ShouldEqual, 60)  // From file
				convey.So(cfg.CacheTTLHours, convey.ShouldEqual, 24)    // From defaults
				convey.So(cfg.MaxDistanceMiles, convey.ShouldEqual, 50) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MATCHD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("MATCHD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MATCHD_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive cache TTL", func() {
			_ = os.Setenv("MATCHD_CACHE_TTL_HOURS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "cache_ttl_hours")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative weight", func() {
			_ = os.Setenv("MATCHD_DISTANCE_WEIGHT", "-0.2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "weights must not be negative")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive match radius", func() {
			_ = os.Setenv("MATCHD_MAX_DISTANCE_MILES", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_distance_miles")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive worker count", func() {
			_ = os.Setenv("MATCHD_WORKER_COUNT", "-4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "worker_count")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("MATCHD_CACHE_TTL_HOURS", "invalid")
			_ = os.Setenv("MATCHD_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"MATCHD_CONFIG",
		"MATCHD_ADDR",
		"MATCHD_CACHE_TTL_HOURS",
		"MATCHD_MAX_DISTANCE_MILES",
		"MATCHD_SKILL_WEIGHT",
		"MATCHD_DISTANCE_WEIGHT",
		"MATCHD_URGENCY_WEIGHT",
		"MATCHD_WORKER_COUNT",
		"MATCHD_BATCH_QUEUE_SIZE",
		"MATCHD_NOTIFY_THRESHOLD",
		"MATCHD_NOTIFY_TOP_N",
		"MATCHD_MAPS_API_KEY",
		"MATCHD_MAPS_BASE_URL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "matchd-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
