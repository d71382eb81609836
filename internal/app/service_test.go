package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	app "github.com/isosalus/opeq/internal/app"
	"github.com/isosalus/opeq/internal/batch"
	catalog "github.com/isosalus/opeq/internal/domain/catalog"
	"github.com/isosalus/opeq/internal/domain/model"
	"github.com/isosalus/opeq/internal/domain/report"
	scoring "github.com/isosalus/opeq/internal/domain/scoring"
	"github.com/isosalus/opeq/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Service logging needs the global logger.
	_ = logger.Init()
}

// moderate mirrors the sample respondent: PROCESS 11/20, PEOPLE 5/20,
// TECHNOLOGY 5/20.
func moderate() model.ResponseSet {
	return model.ResponseSet{
		"P1": "Yes", "P2": "Annually", "P3": "26-50%", "P4": "Referral list only",
		"PE1": "26-50%", "PE2": "No", "PE3": "Somewhat representative", "PE4": "No",
		"T1": "No", "T2": "Under development", "T3": "Annually", "T4": "26-50%",
	}
}

func startedService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	opts = append([]app.Option{
		app.WithCatalogPath(filepath.Join("testdata", "catalog.yaml")),
	}, opts...)
	svc := app.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc
}

func TestService_Assess(t *testing.T) {
	Convey("Given a started service", t, func() {
		at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		svc := startedService(t, app.WithReportOptions(
			report.WithClock(func() time.Time { return at }),
			report.WithIDSource(func() string { return "run-1" }),
		))
		ctx := context.Background()

		Convey("When assessing the moderate respondent", func() {
			rep, err := svc.Assess(ctx, "Sample Health System", moderate())
			So(err, ShouldBeNil)

			Convey("Then category scores and the overall mean line up", func() {
				So(rep.Assessment.Categories[0].Points, ShouldEqual, 11)
				So(rep.Assessment.Categories[0].Percentage, ShouldEqual, 55.0)
				So(rep.Assessment.Categories[1].Percentage, ShouldEqual, 25.0)
				So(rep.Assessment.Categories[2].Percentage, ShouldEqual, 25.0)
				So(rep.Assessment.Percentage, ShouldEqual, 35.0)
				So(rep.Assessment.Interpretation, ShouldEqual, scoring.LabelCritical)
			})

			Convey("And the tied lowest categories resolve by declaration order", func() {
				So(rep.PriorityCategory, ShouldEqual, "PEOPLE")
			})

			Convey("And recommendations come from that category, worst first", func() {
				So(len(rep.Recommendations), ShouldBeLessThanOrEqualTo, 5)
				So(len(rep.Recommendations), ShouldEqual, 4)
				So(rep.Recommendations[0].QuestionID, ShouldEqual, "PE2")
				So(rep.Recommendations[0].Rank, ShouldEqual, 1)
				So(rep.Recommendations[0].Action, ShouldNotBeEmpty)
				for i := 1; i < len(rep.Recommendations); i++ {
					So(rep.Recommendations[i].Points, ShouldBeGreaterThanOrEqualTo, rep.Recommendations[i-1].Points)
				}
			})

			Convey("And scoring the same responses twice is bit-identical", func() {
				again, err := svc.Assess(ctx, "Sample Health System", moderate())
				So(err, ShouldBeNil)
				So(reflect.DeepEqual(rep, again), ShouldBeTrue)
			})
		})

		Convey("When a response picks an undeclared option", func() {
			rs := moderate()
			rs["P1"] = "Perhaps"

			_, err := svc.Assess(ctx, "Org", rs)

			Convey("Then the run fails and no report is emitted", func() {
				So(errors.Is(err, scoring.ErrInvalidResponse), ShouldBeTrue)
			})

			Convey("And an independent response set still scores fine", func() {
				_, err := svc.Assess(ctx, "Org", moderate())
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := app.New()

		Convey("Then assessing fails with ErrNotStarted", func() {
			_, err := svc.Assess(context.Background(), "Org", moderate())
			So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a missing catalog path", t, func() {
		svc := app.New(app.WithCatalogPath(filepath.Join("testdata", "nope.yaml")))

		Convey("Then starting fails with a catalog load error", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
		})
	})
}

func TestService_AssessBatch(t *testing.T) {
	Convey("Given a started service with a few workers", t, func() {
		svc := startedService(t, app.WithWorkerCount(4))
		ctx := context.Background()

		Convey("When scoring many respondents, one of them invalid", func() {
			bad := moderate()
			bad["T1"] = "Perhaps"

			jobs := []batch.Job{
				{Name: "org-a", Responses: moderate()},
				{Name: "org-b", Responses: bad},
				{Name: "org-c", Responses: model.ResponseSet{}},
			}

			results, err := svc.AssessBatch(ctx, jobs)
			So(err, ShouldBeNil)
			So(len(results), ShouldEqual, 3)

			Convey("Then the invalid respondent fails alone", func() {
				So(results[0].Err, ShouldBeNil)
				So(errors.Is(results[1].Err, scoring.ErrInvalidResponse), ShouldBeTrue)
				So(results[2].Err, ShouldBeNil)
			})

			Convey("And the unanswered respondent scores zero with the first category as focus", func() {
				So(results[2].Report.Assessment.Percentage, ShouldEqual, 0.0)
				So(results[2].Report.Assessment.Interpretation, ShouldEqual, scoring.LabelCritical)
				So(results[2].Report.PriorityCategory, ShouldEqual, "PROCESS")
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := app.New()

		Convey("Then batch scoring fails with ErrNotStarted", func() {
			_, err := svc.AssessBatch(context.Background(), nil)
			So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		svc := startedService(t)

		Convey("Then the definition is shared and immutable metadata is exposed", func() {
			So(svc.Definition(), ShouldNotBeNil)
			So(svc.Definition().Len(), ShouldEqual, 12)
			So(svc.Metadata().FrameworkName, ShouldEqual, "Operational Equity Framework")
		})

		Convey("And starting again is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})
	})
}
