package gaps_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gaps "github.com/isosalus/opeq/internal/domain/gaps"
	"github.com/isosalus/opeq/internal/domain/model"
	scoring "github.com/isosalus/opeq/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func scaleQuestion(id, category string) model.Question {
	options := make([]string, 6)
	scoringMap := make(map[string]int, 6)
	for i := 0; i <= 5; i++ {
		opt := fmt.Sprintf("%d", i)
		options[i] = opt
		scoringMap[opt] = i
	}
	return model.Question{
		ID:          id,
		Category:    category,
		Type:        model.TypeScale,
		Prompt:      "prompt " + id,
		Options:     options,
		Scoring:     scoringMap,
		Remediation: "remediate " + id,
		Rationale:   "why " + id,
	}
}

func buildDefinition(categories []string, perCategory int) *model.AssessmentDefinition {
	var questions []model.Question
	for _, cat := range categories {
		for i := 1; i <= perCategory; i++ {
			questions = append(questions, scaleQuestion(fmt.Sprintf("%s%d", cat, i), cat))
		}
	}
	return model.NewDefinition(questions)
}

func score(t *testing.T, def *model.AssessmentDefinition, rs model.ResponseSet) model.OverallAssessment {
	t.Helper()
	assessment, err := scoring.NewEngine().Score(context.Background(), def, rs)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	return assessment
}

func TestAnalyzer_Analyze(t *testing.T) {
	Convey("Given a scored three-category assessment", t, func() {
		def := buildDefinition([]string{"X", "Y", "Z"}, 3)
		analyzer := gaps.NewAnalyzer()

		Convey("When one category clearly scores lowest", func() {
			rs := model.ResponseSet{
				"X1": "5", "X2": "5", "X3": "5",
				"Y1": "5", "Y2": "3", "Y3": "5",
				"Z1": "1", "Z2": "0", "Z3": "4",
			}
			assessment := score(t, def, rs)

			priority, gapList, err := analyzer.Analyze(def, assessment)
			So(err, ShouldBeNil)

			Convey("Then it becomes the priority focus category", func() {
				So(priority, ShouldEqual, "Z")
			})

			Convey("And only its below-maximum questions appear, worst first", func() {
				So(len(gapList), ShouldEqual, 3)
				So(gapList[0].QuestionID, ShouldEqual, "Z2")
				So(gapList[0].Points, ShouldEqual, 0)
				So(gapList[1].QuestionID, ShouldEqual, "Z1")
				So(gapList[2].QuestionID, ShouldEqual, "Z3")
			})

			Convey("And gaps carry the authored remediation fields", func() {
				So(gapList[0].Remediation, ShouldEqual, "remediate Z2")
				So(gapList[0].Rationale, ShouldEqual, "why Z2")
				So(gapList[0].Prompt, ShouldEqual, "prompt Z2")
				So(gapList[0].Shortfall, ShouldEqual, 1.0)
			})
		})

		Convey("When two categories tie for lowest", func() {
			rs := model.ResponseSet{
				"X1": "2", "X2": "2", "X3": "2",
				"Y1": "2", "Y2": "2", "Y3": "2",
				"Z1": "5", "Z2": "5", "Z3": "5",
			}
			assessment := score(t, def, rs)

			priority, _, err := analyzer.Analyze(def, assessment)
			So(err, ShouldBeNil)

			Convey("Then declaration order breaks the tie", func() {
				So(priority, ShouldEqual, "X")
			})
		})

		Convey("When questions within the priority category tie on points", func() {
			rs := model.ResponseSet{
				"X1": "3", "X2": "3", "X3": "3",
				"Y1": "5", "Y2": "5", "Y3": "5",
				"Z1": "5", "Z2": "5", "Z3": "5",
			}
			assessment := score(t, def, rs)

			_, gapList, err := analyzer.Analyze(def, assessment)
			So(err, ShouldBeNil)

			Convey("Then declaration order breaks those ties too", func() {
				So(len(gapList), ShouldEqual, 3)
				So(gapList[0].QuestionID, ShouldEqual, "X1")
				So(gapList[1].QuestionID, ShouldEqual, "X2")
				So(gapList[2].QuestionID, ShouldEqual, "X3")
			})
		})

		Convey("When the priority category has no shortfall", func() {
			rs := model.ResponseSet{}
			for _, q := range def.Questions() {
				rs[q.ID] = "5"
			}
			assessment := score(t, def, rs)

			priority, gapList, err := analyzer.Analyze(def, assessment)

			Convey("Then the gap list is empty", func() {
				So(err, ShouldBeNil)
				So(priority, ShouldEqual, "X")
				So(gapList, ShouldBeEmpty)
			})
		})

		Convey("When nothing is answered at all", func() {
			assessment := score(t, def, model.ResponseSet{})

			priority, gapList, err := analyzer.Analyze(def, assessment)

			Convey("Then the first declared category wins and every question gaps", func() {
				So(err, ShouldBeNil)
				So(priority, ShouldEqual, "X")
				So(len(gapList), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an empty assessment", t, func() {
		analyzer := gaps.NewAnalyzer()
		def := buildDefinition([]string{"X"}, 1)

		Convey("Then analysis fails with ErrEmptyAssessment", func() {
			_, _, err := analyzer.Analyze(def, model.OverallAssessment{})
			So(errors.Is(err, gaps.ErrEmptyAssessment), ShouldBeTrue)
		})
	})

	Convey("Given a scorecard entry the definition does not know", t, func() {
		analyzer := gaps.NewAnalyzer()
		def := buildDefinition([]string{"X"}, 1)
		assessment := model.OverallAssessment{
			Categories: []model.CategoryScore{{Category: "X", MaxPoints: 5}},
			Scorecard:  []model.QuestionScore{{QuestionID: "ghost", Category: "X", Points: 0, MaxPoints: 5}},
		}

		Convey("Then analysis fails with an UnknownQuestionError", func() {
			_, _, err := analyzer.Analyze(def, assessment)
			So(errors.Is(err, gaps.ErrUnknownQuestion), ShouldBeTrue)

			var uqe *gaps.UnknownQuestionError
			So(errors.As(err, &uqe), ShouldBeTrue)
			So(uqe.QuestionID, ShouldEqual, "ghost")
		})
	})
}
