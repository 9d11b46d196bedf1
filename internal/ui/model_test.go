package ui

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		var m Model

		Convey("Without a notification the content is untouched", func() {
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("A notification is shown until its clear message", func() {
			cmd := m.Update(NotificationMsg("saved"))
			So(cmd, ShouldNotBeNil)
			So(m.Text(), ShouldEqual, "saved")
			So(m.View("a\nb"), ShouldContainSubstring, "saved")

			first := m.shownAt
			time.Sleep(time.Millisecond)
			m.Update(NotificationMsg("again"))

			m.Update(ClearNotificationMsg{At: first})
			So(m.Text(), ShouldEqual, "again")

			m.Update(ClearNotificationMsg{At: m.shownAt})
			So(m.Text(), ShouldBeEmpty)
		})

		Convey("Notify wraps the text in a message", func() {
			So(Notify("hi")(), ShouldEqual, NotificationMsg("hi"))
		})
	})
}
