package gesture

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xtplay/xtplay/transport"
)

var screen = Geometry{Width: 400, Height: 800}

func TestClassification(t *testing.T) {
	Convey("Given a classifier with default tuning", t, func() {
		c := New(DefaultConfig())
		anchor := Anchor{Volume: 0.5, Brightness: 0.5, Time: 60, Duration: 120}

		Convey("Movement within the threshold is a tap", func() {
			s := c.Begin(300, screen, Content{}, anchor)
			_, ok := s.Move(Sample{DX: 10, DY: -12, X: 310})
			So(ok, ShouldBeFalse)
			So(s.Kind(), ShouldEqual, None)

			r := s.End()
			So(r.Tap, ShouldBeTrue)
			So(r.Commit.IsPresent(), ShouldBeFalse)
		})

		Convey("Movement of exactly the threshold does not lock", func() {
			s := c.Begin(300, screen, Content{}, anchor)
			_, ok := s.Move(Sample{DX: 15, DY: 15})
			So(ok, ShouldBeFalse)
			So(s.Locked(), ShouldBeFalse)
		})

		Convey("A vertical drag on the right half controls volume", func() {
			s := c.Begin(300, screen, Content{}, anchor)
			change, ok := s.Move(Sample{DY: -100, X: 300})
			So(ok, ShouldBeTrue)
			So(change.Kind, ShouldEqual, Volume)
			So(change.Value, ShouldAlmostEqual, 0.7, 1e-9)
		})

		Convey("A vertical drag starting exactly at the midline controls volume", func() {
			s := c.Begin(200, screen, Content{}, anchor)
			s.Move(Sample{DY: 40})
			So(s.Kind(), ShouldEqual, Volume)
		})

		Convey("A vertical drag on the left half controls brightness", func() {
			s := c.Begin(50, screen, Content{}, anchor)
			change, ok := s.Move(Sample{DY: 100, X: 50})
			So(ok, ShouldBeTrue)
			So(change.Kind, ShouldEqual, Brightness)
			So(change.Value, ShouldAlmostEqual, 0.3, 1e-9)
		})

		Convey("A horizontal drag on seekable content seeks", func() {
			s := c.Begin(100, screen, Content{}, anchor)
			change, ok := s.Move(Sample{DX: 100})
			So(ok, ShouldBeTrue)
			So(change.Kind, ShouldEqual, Seek)
			// 120s over 400px
			So(change.Value, ShouldAlmostEqual, 90, 1e-9)
			So(s.Pending().MustGet(), ShouldAlmostEqual, 90, 1e-9)
		})

		Convey("A diagonal drag with equal axes seeks", func() {
			s := c.Begin(100, screen, Content{}, anchor)
			s.Move(Sample{DX: 20, DY: 20})
			So(s.Kind(), ShouldEqual, Seek)
		})
	})
}

func TestKindIsLocked(t *testing.T) {
	Convey("Once locked, the kind never changes", t, func() {
		c := New(DefaultConfig())
		s := c.Begin(300, screen, Content{}, Anchor{Volume: 0.5, Duration: 100})

		s.Move(Sample{DY: -30})
		So(s.Kind(), ShouldEqual, Volume)

		change, ok := s.Move(Sample{DX: 500, DY: -30})
		So(ok, ShouldBeTrue)
		So(change.Kind, ShouldEqual, Volume)
		So(s.Pending().IsPresent(), ShouldBeFalse)

		r := s.End()
		So(r.Tap, ShouldBeFalse)
		So(r.Kind, ShouldEqual, Volume)
		So(r.Commit.IsPresent(), ShouldBeFalse)
	})
}

func TestClamping(t *testing.T) {
	Convey("Given extreme displacements", t, func() {
		c := New(DefaultConfig())
		anchor := Anchor{Volume: 0.5, Brightness: 0.5, Time: 30, Duration: 60}

		Convey("Volume saturates at both ends", func() {
			s := c.Begin(390, screen, Content{}, anchor)
			up, _ := s.Move(Sample{DY: -100000})
			So(up.Value, ShouldEqual, transport.MaxVolume)
			down, _ := s.Move(Sample{DY: 100000})
			So(down.Value, ShouldEqual, transport.MinVolume)
		})

		Convey("Brightness never drops below its floor", func() {
			s := c.Begin(10, screen, Content{}, anchor)
			down, _ := s.Move(Sample{DY: 100000})
			So(down.Value, ShouldEqual, transport.MinBrightness)
		})

		Convey("A VOD seek stays within the duration", func() {
			s := c.Begin(10, screen, Content{}, anchor)
			forward, _ := s.Move(Sample{DX: 100000})
			So(forward.Value, ShouldEqual, 60)
			back, _ := s.Move(Sample{DX: -100000})
			So(back.Value, ShouldEqual, 0)
		})

		Convey("A seek with unknown duration only floors at zero", func() {
			s := c.Begin(10, screen, Content{}, Anchor{Time: 30})
			forward, _ := s.Move(Sample{DX: 1000})
			So(forward.Value, ShouldAlmostEqual, 130, 1e-9)
			back, _ := s.Move(Sample{DX: -1000})
			So(back.Value, ShouldEqual, 0)
		})
	})
}

func TestLiveContent(t *testing.T) {
	Convey("Given live content", t, func() {
		c := New(DefaultConfig())
		anchor := Anchor{Volume: 0.5, Brightness: 0.5, Time: 1000}

		Convey("A DVR seek is bounded around the anchor", func() {
			s := c.Begin(100, screen, Content{Live: true, DVR: true}, anchor)
			change, ok := s.Move(Sample{DX: 5000})
			So(ok, ShouldBeTrue)
			So(change.Kind, ShouldEqual, Seek)
			So(change.Value, ShouldAlmostEqual, 1030, 1e-9)

			back, _ := s.Move(Sample{DX: -50000})
			So(back.Value, ShouldAlmostEqual, 700, 1e-9)

			r := s.End()
			So(r.Commit.MustGet(), ShouldAlmostEqual, 700, 1e-9)
		})

		Convey("A DVR seek near the start of the stream floors at zero", func() {
			s := c.Begin(100, screen, Content{Live: true, DVR: true}, Anchor{Time: 100})
			back, _ := s.Move(Sample{DX: -50000})
			So(back.Value, ShouldEqual, 0)
		})

		Convey("A horizontal drag without DVR stays inert", func() {
			s := c.Begin(300, screen, Content{Live: true}, anchor)
			_, ok := s.Move(Sample{DX: 200})
			So(ok, ShouldBeFalse)
			So(s.Kind(), ShouldEqual, None)

			Convey("and a later vertical movement can still lock", func() {
				change, ok := s.Move(Sample{DX: 200, DY: -400})
				So(ok, ShouldBeTrue)
				So(change.Kind, ShouldEqual, Volume)
			})

			Convey("and releasing it is neither a tap nor a commit", func() {
				r := s.End()
				So(r.Tap, ShouldBeFalse)
				So(r.Kind, ShouldEqual, None)
				So(r.Commit.IsPresent(), ShouldBeFalse)
			})
		})
	})
}

func TestCancel(t *testing.T) {
	Convey("Cancelling a seek discards the staged target", t, func() {
		c := New(DefaultConfig())
		s := c.Begin(100, screen, Content{}, Anchor{Time: 10, Duration: 100})
		s.Move(Sample{DX: 80})
		So(s.Pending().IsPresent(), ShouldBeTrue)

		s.Cancel()
		So(s.Pending().IsPresent(), ShouldBeFalse)

		_, ok := s.Move(Sample{DX: 90})
		So(ok, ShouldBeFalse)
		So(s.End().Commit.IsPresent(), ShouldBeFalse)
	})
}

func TestRandomDrags(t *testing.T) {
	Convey("Random drags always produce values within bounds", t, func() {
		rng := rand.New(rand.NewSource(42))
		c := New(DefaultConfig())

		for i := 0; i < 500; i++ {
			content := Content{Live: rng.Intn(2) == 0, DVR: rng.Intn(2) == 0}
			anchor := Anchor{
				Volume:     rng.Float64(),
				Brightness: 0.1 + rng.Float64()*0.9,
				Time:       rng.Float64() * 3600,
			}
			if !content.Live {
				anchor.Duration = anchor.Time + rng.Float64()*3600
			}

			s := c.Begin(rng.Float64()*screen.Width, screen, content, anchor)
			var first Kind
			for j := 0; j < 20; j++ {
				sample := Sample{DX: (rng.Float64() - 0.5) * 4000, DY: (rng.Float64() - 0.5) * 4000}
				change, ok := s.Move(sample)
				if !ok {
					continue
				}
				if first == None {
					first = change.Kind
				}
				So(change.Kind, ShouldEqual, first)

				switch change.Kind {
				case Volume:
					So(change.Value, ShouldBeBetweenOrEqual, transport.MinVolume, transport.MaxVolume)
				case Brightness:
					So(change.Value, ShouldBeBetweenOrEqual, transport.MinBrightness, transport.MaxBrightness)
				case Seek:
					So(change.Value, ShouldBeGreaterThanOrEqualTo, 0)
					if content.Live {
						So(change.Value, ShouldBeBetweenOrEqual, anchor.Time-300, anchor.Time+30)
					} else {
						So(change.Value, ShouldBeLessThanOrEqualTo, anchor.Duration)
					}
				}
			}
		}
	})
}
