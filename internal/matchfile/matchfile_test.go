package matchfile_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/internal/matchfile"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `
beta: 4
matches:
  - id: m1
    name: final
    teams:
      - name: red
        players:
          - {id: a, mu: 25, sigma: 5}
          - {id: b, mu: 30, sigma: 4, weight: 0.5}
      - players: [{mu: 28, sigma: 6}]
  - id: m2
    mode: free_for_all
    beta: 2
    teams:
      - players: [{mu: 25, sigma: 5}]
      - players: [{mu: 25, sigma: 5}]
      - players: [{mu: 25, sigma: 5}]
`

func TestDecode(t *testing.T) {
	Convey("Given a well-formed document", t, func() {
		f, err := matchfile.Decode(strings.NewReader(sample))

		Convey("Then it decodes every match", func() {
			So(err, ShouldBeNil)
			So(len(f.Matches), ShouldEqual, 2)
			So(f.Matches[0].Label(), ShouldEqual, "final")
			So(len(f.Matches[0].Teams[0].Players), ShouldEqual, 2)
			So(*f.Matches[0].Teams[0].Players[1].Weight, ShouldEqual, 0.5)
			So(f.Matches[0].Teams[0].Players[0].Weight, ShouldBeNil)
		})

		Convey("And unset fields are resolved from the document", func() {
			So(f.Matches[0].Beta, ShouldEqual, 4.0)
			So(f.Matches[0].Mode, ShouldEqual, model.ModeQuality)
			So(f.Matches[1].Beta, ShouldEqual, 2.0)
			So(f.Matches[1].Mode, ShouldEqual, model.ModeFreeForAll)
		})
	})

	Convey("Given broken documents", t, func() {
		Convey("Then syntax errors are decode errors", func() {
			_, err := matchfile.Decode(strings.NewReader("matches: [unclosed"))
			So(errors.Is(err, matchfile.ErrDecode), ShouldBeTrue)
		})

		Convey("And unknown fields are decode errors", func() {
			_, err := matchfile.Decode(strings.NewReader("betta: 3\nmatches: []\n"))
			So(errors.Is(err, matchfile.ErrDecode), ShouldBeTrue)
		})

		Convey("And an empty document is a decode error", func() {
			_, err := matchfile.Decode(strings.NewReader(""))
			So(errors.Is(err, matchfile.ErrDecode), ShouldBeTrue)
		})

		Convey("And a document without matches is invalid", func() {
			_, err := matchfile.Decode(strings.NewReader("beta: 3\nmatches: []\n"))
			So(errors.Is(err, matchfile.ErrInvalidFile), ShouldBeTrue)
		})

		Convey("And a match with one team is invalid", func() {
			_, err := matchfile.Decode(strings.NewReader("matches:\n  - teams:\n      - players: [{mu: 1, sigma: 1}]\n"))
			So(errors.Is(err, matchfile.ErrInvalidFile), ShouldBeTrue)
		})

		Convey("And duplicate match ids are invalid", func() {
			doc := strings.ReplaceAll(sample, "id: m2", "id: m1")
			_, err := matchfile.Decode(strings.NewReader(doc))
			So(errors.Is(err, matchfile.ErrInvalidFile), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `reuses id "m1"`)
		})
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	Convey("Given a decoded document", t, func() {
		f, err := matchfile.Decode(strings.NewReader(sample))
		So(err, ShouldBeNil)

		Convey("When saved and loaded again", func() {
			path := filepath.Join(t.TempDir(), "matches.yaml")
			So(matchfile.Save(path, f), ShouldBeNil)
			back, err := matchfile.Load(path)

			Convey("Then the matches are unchanged", func() {
				So(err, ShouldBeNil)
				So(back, ShouldResemble, f)
			})
		})

		Convey("When encoded", func() {
			var buf bytes.Buffer
			So(matchfile.Encode(&buf, f), ShouldBeNil)

			Convey("Then unset weights are omitted", func() {
				So(buf.String(), ShouldContainSubstring, "weight: 0.5")
				So(strings.Count(buf.String(), "weight:"), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a missing path", t, func() {
		_, err := matchfile.Load(filepath.Join(os.TempDir(), "does-not-exist", "m.yaml"))

		Convey("Then loading is a decode error", func() {
			So(errors.Is(err, matchfile.ErrDecode), ShouldBeTrue)
		})
	})
}
