package scoring_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	scoring "github.com/volunteerhub/matchd/internal/domain/scoring"
)

func TestSkillMatchPercent(t *testing.T) {
	Convey("Given volunteer and event skills", t, func() {
		Convey("When the volunteer covers everything", func() {
			got := scoring.SkillMatchPercent(
				[]string{"Environmental Cleanup", "Event Planning", "Teaching"},
				[]string{"Environmental Cleanup", "Teaching"},
			)
			So(got, ShouldEqual, 100.0)
		})

		Convey("When the volunteer covers half the requirements", func() {
			got := scoring.SkillMatchPercent(
				[]string{"Python", "JavaScript"},
				[]string{"python", "java"},
			)
			So(got, ShouldEqual, 50.0)
		})

		Convey("When skill names differ only by case and spacing", func() {
			got := scoring.SkillMatchPercent(
				[]string{"  TEACHING  ", "food service"},
				[]string{"Teaching", "Food Service"},
			)
			So(got, ShouldEqual, 100.0)
		})

		Convey("When the event requires no skills", func() {
			got := scoring.SkillMatchPercent([]string{"Teaching"}, nil)
			So(got, ShouldEqual, 0.0)
		})

		Convey("When the volunteer has no skills", func() {
			got := scoring.SkillMatchPercent(nil, []string{"Teaching"})
			So(got, ShouldEqual, 0.0)
		})

		Convey("When required skills carry duplicates", func() {
			got := scoring.SkillMatchPercent(
				[]string{"Teaching"},
				[]string{"Teaching", "teaching", "Patience"},
			)

			Convey("Then duplicates collapse before counting", func() {
				So(got, ShouldEqual, 50.0)
			})
		})
	})
}

func TestUrgencyScore(t *testing.T) {
	Convey("Given urgency labels", t, func() {
		cases := []struct {
			label string
			want  float64
		}{
			{"high", 1.0},
			{"High", 1.0},
			{"HIGH", 1.0},
			{"medium", 0.6},
			{"Medium", 0.6},
			{"low", 0.3},
			{"Low", 0.3},
			{"critical", 0.0},
			{"", 0.0},
		}

		for _, tc := range cases {
			So(scoring.UrgencyScore(tc.label), ShouldEqual, tc.want)
		}
	})
}

func TestIsHighUrgency(t *testing.T) {
	Convey("Given urgency labels", t, func() {
		So(scoring.IsHighUrgency("high"), ShouldBeTrue)
		So(scoring.IsHighUrgency("High"), ShouldBeTrue)
		So(scoring.IsHighUrgency("medium"), ShouldBeFalse)
		So(scoring.IsHighUrgency(""), ShouldBeFalse)
	})
}

func TestDistanceScore(t *testing.T) {
	Convey("Given distances against a radius", t, func() {
		Convey("When the distance is zero", func() {
			So(scoring.DistanceScore(0, 50), ShouldEqual, 1.0)
		})

		Convey("When the distance is inside the radius", func() {
			So(scoring.DistanceScore(5, 50), ShouldAlmostEqual, 0.9, 1e-9)
			So(scoring.DistanceScore(45, 50), ShouldAlmostEqual, 0.1, 1e-9)
		})

		Convey("When the distance reaches the radius", func() {
			So(scoring.DistanceScore(50, 50), ShouldEqual, 0.0)
		})

		Convey("When the distance exceeds the radius", func() {
			So(scoring.DistanceScore(80, 50), ShouldEqual, 0.0)
		})

		Convey("When the distance is negative", func() {
			Convey("Then it counts as zero miles", func() {
				So(scoring.DistanceScore(-3, 50), ShouldEqual, 1.0)
			})
		})

		Convey("When the radius is non-positive", func() {
			So(scoring.DistanceScore(5, 0), ShouldEqual, 0.0)
			So(scoring.DistanceScore(5, -1), ShouldEqual, 0.0)
		})
	})
}

func TestMatchScore(t *testing.T) {
	Convey("Given the default weight blend", t, func() {
		w := scoring.DefaultWeights()

		Convey("When a perfect-skill volunteer is close to a high urgency event", func() {
			got := scoring.MatchScore(100, 5, "high", 50, w)

			Convey("Then the blend lands at 98", func() {
				So(got, ShouldEqual, 98.0)
			})
		})

		Convey("When a weak-skill volunteer is far from a low urgency event", func() {
			got := scoring.MatchScore(20, 45, "low", 50, w)
			So(got, ShouldEqual, 21.0)
		})

		Convey("When urgency is unknown", func() {
			got := scoring.MatchScore(100, 0, "whenever", 50, w)

			Convey("Then only skill and distance contribute", func() {
				So(got, ShouldEqual, 70.0)
			})
		})

		Convey("When the result needs rounding", func() {
			got := scoring.MatchScore(100, 7.77, "medium", 50, w)

			// 1.0*0.5 + 0.8446*0.2 + 0.6*0.3 = 0.84892
			So(got, ShouldEqual, 84.89)
		})
	})

	Convey("Given a custom weight blend", t, func() {
		Convey("When weights do not sum to one", func() {
			w := scoring.Weights{Skill: 1.0, Distance: 1.0, Urgency: 1.0}
			got := scoring.MatchScore(100, 0, "high", 50, w)

			Convey("Then the score scales with the blend instead of clamping", func() {
				So(got, ShouldEqual, 300.0)
			})
		})

		Convey("When a component weight is zero", func() {
			w := scoring.Weights{Skill: 1.0, Distance: 0, Urgency: 0}
			got := scoring.MatchScore(80, 49, "high", 50, w)
			So(got, ShouldEqual, 80.0)
		})
	})
}

func TestWeightsValidate(t *testing.T) {
	Convey("Given weight blends", t, func() {
		Convey("When all weights are non-negative", func() {
			So(scoring.DefaultWeights().Validate(), ShouldBeNil)
			So(scoring.Weights{}.Validate(), ShouldBeNil)
			So(scoring.Weights{Skill: 2, Distance: 1, Urgency: 1}.Validate(), ShouldBeNil)
		})

		Convey("When any weight is negative", func() {
			err := scoring.Weights{Skill: -0.1, Distance: 0.2, Urgency: 0.3}.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid weights")
		})

		Convey("When a weight is not a finite number", func() {
			So(scoring.Weights{Skill: math.NaN(), Distance: 0.2, Urgency: 0.3}.Validate(), ShouldNotBeNil)
			So(scoring.Weights{Skill: 0.5, Distance: math.Inf(1), Urgency: 0.3}.Validate(), ShouldNotBeNil)
		})
	})
}

func TestRound2(t *testing.T) {
	Convey("Given values needing rounding", t, func() {
		So(scoring.Round2(98.0049), ShouldEqual, 98.0)
		So(scoring.Round2(21.0061), ShouldEqual, 21.01)
		So(scoring.Round2(0), ShouldEqual, 0.0)
	})
}
