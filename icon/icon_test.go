package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/xtplay/xtplay/key"
)

func TestGet(t *testing.T) {
	Convey("Every icon has a glyph in every variant", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			for i := range icons {
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("Given the live icon", t, func() {
		Convey("Plain renders the ascii glyph", func() {
			viper.Set(key.IconsVariant, plain)
			So(Get(Live), ShouldEqual, "●")
		})

		Convey("An unknown variant falls back to plain", func() {
			viper.Set(key.IconsVariant, "neon")
			So(Get(Live), ShouldEqual, "●")
		})
	})

	Convey("Unregistered icons render empty", t, func() {
		So(Get(Icon(-1)), ShouldBeEmpty)
	})
}
