package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/isosalus/opeq/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			log := logger.Get()
			So(log, ShouldNotBeNil)

			ctx := context.Background()
			So(func() {
				log.Info(ctx, "hello", logger.String("k", "v"))
				log.Debug(ctx, "debug", logger.Int("n", 1))
				log.Warn(ctx, "warn", logger.Float64("f", 1.5))
				log.Error(ctx, "error", logger.Error(errors.New("boom")))
			}, ShouldNotPanic)
		})

		Convey("And Named returns a scoped logger", func() {
			So(logger.Named("batch"), ShouldNotBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then recognized levels parse", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("info"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString("warning"), ShouldBeNil)
			So(logger.SetLevelString(" error "), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
		})

		Convey("And unknown levels are rejected", func() {
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field helpers", t, func() {
		So(logger.String("a", "b").Key, ShouldEqual, "a")
		So(logger.Int("n", 3).Value, ShouldEqual, 3)
		So(logger.Any("x", nil).Key, ShouldEqual, "x")
		So(logger.Error(errors.New("boom")).Key, ShouldEqual, "error")
	})
}
