package util

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatTimestamp(t *testing.T) {
	Convey("FormatTimestamp", t, func() {
		So(FormatTimestamp(0), ShouldEqual, "0:00")
		So(FormatTimestamp(77), ShouldEqual, "1:17")
		So(FormatTimestamp(3725.9), ShouldEqual, "1:02:05")
		So(FormatTimestamp(-4), ShouldEqual, "0:00")
		So(FormatTimestamp(math.NaN()), ShouldEqual, "0:00")
	})
}

func TestStack(t *testing.T) {
	Convey("Given a stack", t, func() {
		var s Stack[string]

		Convey("An empty stack reports nothing", func() {
			_, ok := s.Pop()
			So(ok, ShouldBeFalse)
			_, ok = s.Peek()
			So(ok, ShouldBeFalse)
		})

		Convey("Items come back newest first", func() {
			s.Push("live")
			s.Push("series")

			top, ok := s.Peek()
			So(ok, ShouldBeTrue)
			So(top, ShouldEqual, "series")
			So(s.Len(), ShouldEqual, 2)

			top, _ = s.Pop()
			So(top, ShouldEqual, "series")
			top, _ = s.Pop()
			So(top, ShouldEqual, "live")
			So(s.Len(), ShouldEqual, 0)
		})
	})
}
