package model_test

import (
	"testing"

	model "github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventKey(t *testing.T) {
	convey.Convey("Given engagement events", t, func() {
		convey.Convey("When two reads share user and day", func() {
			a := model.NewRead("alice", 5)
			b := model.NewRead("alice", 5)

			convey.Convey("Then their keys are equal", func() {
				convey.So(a.Key(), convey.ShouldResemble, b.Key())
			})
		})

		convey.Convey("When task events differ only by task index", func() {
			a := model.NewTaskDone("alice", 3, 0)
			b := model.NewTaskDone("alice", 3, 1)

			convey.Convey("Then their keys differ", func() {
				convey.So(a.Key(), convey.ShouldNotResemble, b.Key())
			})
		})

		convey.Convey("When a read and a task event share user and day", func() {
			r := model.NewRead("alice", 7)
			td := model.NewTaskDone("alice", 7, 0)

			convey.Convey("Then their keys differ by kind", func() {
				convey.So(r.Key(), convey.ShouldNotResemble, td.Key())
				convey.So(r.Key().TaskIndex, convey.ShouldEqual, model.NoTask)
			})
		})

		convey.Convey("When a read carries an explicit task index", func() {
			e := model.Event{Kind: model.KindRead, UserID: "alice", Day: 2, TaskIndex: 4}

			convey.Convey("Then the key normalizes it away", func() {
				convey.So(e.Key().TaskIndex, convey.ShouldEqual, model.NoTask)
			})
		})
	})
}

func TestProfileDisplayName(t *testing.T) {
	convey.Convey("Given user profiles", t, func() {
		convey.Convey("When first and last name are set", func() {
			p := model.Profile{UserID: "42", FirstName: "Ada", LastName: "Lovelace"}
			convey.So(p.DisplayName(), convey.ShouldEqual, "Ada Lovelace")
		})

		convey.Convey("When only the first name is set", func() {
			p := model.Profile{UserID: "42", FirstName: "Ada"}
			convey.So(p.DisplayName(), convey.ShouldEqual, "Ada")
		})

		convey.Convey("When only the last name is set", func() {
			p := model.Profile{UserID: "42", LastName: "Lovelace"}
			convey.So(p.DisplayName(), convey.ShouldEqual, "Lovelace")
		})

		convey.Convey("When no name is known", func() {
			p := model.Profile{UserID: "42"}

			convey.Convey("Then it falls back to the raw user id", func() {
				convey.So(p.DisplayName(), convey.ShouldEqual, "42")
			})
		})
	})
}
