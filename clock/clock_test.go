package clock

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFake(t *testing.T) {
	Convey("Given a fake clock", t, func() {
		start := time.Unix(1000, 0)
		c := NewFake(start)
		var fired []string

		Convey("Timers fire in deadline order once due", func() {
			c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
			c.AfterFunc(time.Second, func() { fired = append(fired, "a") })

			c.Advance(500 * time.Millisecond)
			So(fired, ShouldBeEmpty)

			c.Advance(2 * time.Second)
			So(fired, ShouldResemble, []string{"a", "b"})
			So(c.Now().Equal(start.Add(2500*time.Millisecond)), ShouldBeTrue)
			So(c.Pending(), ShouldEqual, 0)
		})

		Convey("A stopped timer never fires", func() {
			timer := c.AfterFunc(time.Second, func() { fired = append(fired, "x") })
			So(timer.Stop(), ShouldBeTrue)
			So(timer.Stop(), ShouldBeFalse)
			c.Advance(time.Minute)
			So(fired, ShouldBeEmpty)
		})

		Convey("Callbacks observe the deadline as Now()", func() {
			var at time.Time
			c.AfterFunc(3*time.Second, func() { at = c.Now() })
			c.Advance(10 * time.Second)
			So(at.Equal(start.Add(3*time.Second)), ShouldBeTrue)
		})

		Convey("Timers scheduled from a callback fire in the same Advance", func() {
			c.AfterFunc(time.Second, func() {
				fired = append(fired, "first")
				c.AfterFunc(time.Second, func() { fired = append(fired, "second") })
			})
			c.Advance(5 * time.Second)
			So(fired, ShouldResemble, []string{"first", "second"})
		})
	})
}

func TestReal(t *testing.T) {
	Convey("Real clock with Post hands callbacks to the queue", t, func() {
		queue := make(chan func(), 1)
		c := Real{Post: func(f func()) { queue <- f }}

		ran := false
		c.AfterFunc(time.Millisecond, func() { ran = true })

		select {
		case f := <-queue:
			So(ran, ShouldBeFalse)
			f()
			So(ran, ShouldBeTrue)
		case <-time.After(2 * time.Second):
			So("timer never posted", ShouldBeEmpty)
		}
	})
}
