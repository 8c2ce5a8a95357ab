package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/jobscope/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const diceCSV = "\ufeffadvertiserurl,company,employmenttype_jobstatus,jobdescription,jobid,joblocation_address,jobtitle,postdate,shift,site_name,skills,uniq_id\n" +
	"https://x,Acme,\"Full Time, Contract\",Great team,1,\"Austin, TX\",Go Developer,1 hour ago,,,\"Go, SQL\",u1\n" +
	"https://y,Beta,Contract,,2,Remote,Data Engineer,Posted 3 days ago,,,,u2\n" +
	"https://z,Gamma,,\"multi\nline\",3,\"Boston, MA\",,2 weeks ago,,,Rust\n"

func sample() []model.RawListing {
	return []model.RawListing{
		{JobID: "a", Title: "Go Developer", Company: "Acme", LocationAddress: "Austin, TX", Skills: "Go, SQL", Description: "good, \"quoted\"", EmploymentType: "Full Time", PostedAt: "1 day ago"},
		{JobID: "b", Title: "Rust Engineer", LocationAddress: "Remote", PostedAt: "2 weeks ago"},
		{JobID: "c", Title: "", Description: "line1\nline2", PostedAt: ""},
	}
}

func TestReadCSV(t *testing.T) {
	Convey("Given a dataset export with extra columns", t, func() {
		raws, err := ReadCSV(context.Background(), strings.NewReader(diceCSV))

		Convey("Then rows map to listings by header name in file order", func() {
			So(err, ShouldBeNil)
			So(len(raws), ShouldEqual, 3)
			So(raws[0], ShouldResemble, model.RawListing{
				JobID:           "u1",
				Title:           "Go Developer",
				Company:         "Acme",
				LocationAddress: "Austin, TX",
				Skills:          "Go, SQL",
				Description:     "Great team",
				EmploymentType:  "Full Time, Contract",
				PostedAt:        "1 hour ago",
			})
			So(raws[1].Description, ShouldEqual, "")
			So(raws[1].PostedAt, ShouldEqual, "Posted 3 days ago")
			So(raws[2].Description, ShouldEqual, "multi\nline")
			So(raws[2].Title, ShouldEqual, "")
			So(raws[2].JobID, ShouldEqual, "")
		})
	})

	Convey("Given input without a usable header", t, func() {
		_, errEmpty := ReadCSV(context.Background(), strings.NewReader(""))
		_, errHeader := ReadCSV(context.Background(), strings.NewReader("a,b\n1,2\n"))

		Convey("Then loading fails with ErrLoadDataset", func() {
			So(errors.Is(errEmpty, ErrLoadDataset), ShouldBeTrue)
			So(errors.Is(errHeader, ErrLoadDataset), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ReadCSV(ctx, strings.NewReader(diceCSV))
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestCSVRoundTrip(t *testing.T) {
	Convey("Written listings read back unchanged", t, func() {
		var buf bytes.Buffer
		So(WriteCSV(&buf, sample()), ShouldBeNil)

		path := filepath.Join(t.TempDir(), "jobs.csv")
		So(os.WriteFile(path, buf.Bytes(), 0o600), ShouldBeNil)

		src, err := New(KindCSV, path, "")
		So(err, ShouldBeNil)
		So(src.Name(), ShouldEqual, "csv:"+path)

		raws, err := src.Load(context.Background())
		So(err, ShouldBeNil)
		So(raws, ShouldResemble, sample())
	})

	Convey("A missing file is a load error", t, func() {
		_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
		So(errors.Is(err, ErrLoadDataset), ShouldBeTrue)
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})
}

func TestSQLSource(t *testing.T) {
	Convey("Given a SQLite database seeded with listings", t, func() {
		dsn := filepath.Join(t.TempDir(), "jobs.db")
		src, err := NewSQLSource(KindSQLite, dsn, "jobs")
		So(err, ShouldBeNil)
		So(src.Import(context.Background(), sample()), ShouldBeNil)

		Convey("Then Load returns them in insertion order", func() {
			raws, err := src.Load(context.Background())
			So(err, ShouldBeNil)
			So(raws, ShouldResemble, sample())
		})

		Convey("Then a second import appends", func() {
			So(src.Import(context.Background(), sample()[:1]), ShouldBeNil)
			raws, err := src.Load(context.Background())
			So(err, ShouldBeNil)
			So(len(raws), ShouldEqual, 4)
			So(raws[3].JobID, ShouldEqual, "a")
		})

		Convey("Then a missing table is a load error", func() {
			other, err := New(KindSQLite, dsn, "missing")
			So(err, ShouldBeNil)
			_, err = other.Load(context.Background())
			So(errors.Is(err, ErrLoadDataset), ShouldBeTrue)
		})
	})

	Convey("Table names must be plain identifiers", t, func() {
		_, err := NewSQLSource(KindPostgres, "postgres://localhost/jobs", "jobs; DROP TABLE jobs")
		So(errors.Is(err, ErrInvalidTable), ShouldBeTrue)

		_, err = NewSQLSource(KindPostgres, "postgres://localhost/jobs", "public.jobs")
		So(err, ShouldBeNil)

		_, err = NewSQLSource(KindSQLite, "x.db", "jobs", WithOrderBy("id desc"))
		So(errors.Is(err, ErrInvalidTable), ShouldBeTrue)
	})

	Convey("Unknown kinds are rejected", t, func() {
		_, err := New("parquet", "x", "jobs")
		So(errors.Is(err, ErrUnknownSource), ShouldBeTrue)
		_, err = NewSQLSource("mysql", "x", "jobs")
		So(errors.Is(err, ErrUnknownSource), ShouldBeTrue)
	})

	Convey("Placeholders follow the driver", t, func() {
		pg, _ := NewSQLSource(KindPostgres, "", "jobs")
		lite, _ := NewSQLSource(KindSQLite, "", "jobs")
		So(pg.placeholder(3), ShouldEqual, "$3")
		So(lite.placeholder(3), ShouldEqual, "?")
	})
}
