package readers

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveKey(t *testing.T) {
	Convey("Given the dispatch key resolution", t, func() {
		Convey("When a known key is declared", func() {
			key, err := ResolveKey("whatever.bin", KeySbeCnv)

			Convey("Then it wins over the extension", func() {
				So(err, ShouldBeNil)
				So(key, ShouldEqual, KeySbeCnv)
			})
		})

		Convey("When an unknown key is declared", func() {
			_, err := ResolveKey("cast.cnv", "sbe-xyz")

			Convey("Then resolution fails", func() {
				So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
			})
		})

		Convey("When no key is declared", func() {
			key, err := ResolveKey("/data/cast.CNV", "")

			Convey("Then the extension decides, case-insensitively", func() {
				So(err, ShouldBeNil)
				So(key, ShouldEqual, KeySbeCnv)
			})
		})

		Convey("When the extension is not registered", func() {
			_, err := ResolveKey("cast.dat", "")
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given the reader dispatcher", t, func() {
		ctx := context.Background()

		Convey("When opening a Nortek ASCII file without a header path", func() {
			_, err := Open(ctx, "deploy.dat", WithFormatKey(KeyNortekAscii))

			Convey("Then the header requirement is enforced", func() {
				So(errors.Is(err, ErrHeaderRequired), ShouldBeTrue)
			})
		})

		Convey("When opening with a declared key", func() {
			r, err := Open(ctx, "anything.bin", WithFormatKey(KeyCSV))

			Convey("Then the matching reader is constructed", func() {
				So(err, ShouldBeNil)
				So(r.Variant(), ShouldEqual, "CsvReader")
			})
		})
	})
}

// writeRsk creates a container fixture with the given schema identity.
func writeRsk(t *testing.T, name, schemaType, version string, modern bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE dbInfo (version TEXT, type TEXT)`,
		`CREATE TABLE instruments (model TEXT)`,
		`INSERT INTO instruments VALUES ('RBRconcerto')`,
	}
	if modern {
		stmts = append(stmts,
			`CREATE TABLE channels (channelID INTEGER, shortName TEXT, units TEXT)`,
			`INSERT INTO channels VALUES (1, 'temp09', 'degC'), (2, 'pres24', 'dbar')`,
			`CREATE TABLE data (tstamp INTEGER, channel01 REAL, channel02 REAL)`,
			`INSERT INTO data VALUES (1677664800000, 8.1, 10.2), (1677664810000, 8.2, NULL)`,
		)
	} else {
		stmts = append(stmts,
			`CREATE TABLE data (tstamp INTEGER, temp09 REAL, pres24 REAL)`,
			`INSERT INTO data VALUES (1677664800000, 8.1, 10.2), (1677664810000, 8.2, 10.3)`,
		)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.Exec(`INSERT INTO dbInfo VALUES (?, ?)`, version, schemaType); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRskDispatch(t *testing.T) {
	Convey("Given RSK containers of both schema generations", t, func() {
		ctx := context.Background()

		Convey("When the container declares version 2.1.0", func() {
			path := writeRsk(t, "modern.rsk", "full", "2.1.0", true)
			r, err := Open(ctx, path)

			Convey("Then the modern reader is selected", func() {
				So(err, ShouldBeNil)
				So(r.Variant(), ShouldEqual, "RskReader")
			})

			Convey("And it decodes channels, units and NULL samples", func() {
				table, meta, err := r.Read(ctx)
				So(err, ShouldBeNil)
				So(table.Columns, ShouldResemble, []string{"temp09", "pres24"})
				So(table.Units["pres24"], ShouldEqual, "dbar")
				So(table.Times[0], ShouldEqual, time.UnixMilli(1677664800000).UTC())
				So(table.Numeric["temp09"], ShouldResemble, []float64{8.1, 8.2})
				So(math.IsNaN(table.Numeric["pres24"][1]), ShouldBeTrue)
				So(meta.SchemaType, ShouldEqual, "full")
				So(meta.SchemaVersion, ShouldEqual, "2.1.0")
				So(meta.Instrument, ShouldEqual, "RBRconcerto")
			})
		})

		Convey("When the container declares version 1.9.0", func() {
			path := writeRsk(t, "legacy.rsk", "EPdesktop", "1.9.0", false)
			r, err := Open(ctx, path)

			Convey("Then the legacy reader is selected", func() {
				So(err, ShouldBeNil)
				So(r.Variant(), ShouldEqual, "RskLegacyReader")
			})

			Convey("And it discovers columns from the data table itself", func() {
				table, _, err := r.Read(ctx)
				So(err, ShouldBeNil)
				So(table.Columns, ShouldResemble, []string{"temp09", "pres24"})
				So(table.Numeric["pres24"], ShouldResemble, []float64{10.2, 10.3})
			})
		})

		Convey("When the container version is not semantic", func() {
			path := writeRsk(t, "broken.rsk", "full", "two-dot-one", true)
			_, err := Open(ctx, path)

			Convey("Then dispatch fails", func() {
				So(errors.Is(err, ErrMalformedInput), ShouldBeTrue)
			})
		})

		Convey("When the declared key forces a specific schema reader", func() {
			path := writeRsk(t, "forced.rsk", "full", "2.1.0", false)
			r, err := Open(ctx, path, WithFormatKey(KeyRskLegacy))

			Convey("Then the version record is not consulted", func() {
				So(err, ShouldBeNil)
				So(r.Variant(), ShouldEqual, "RskLegacyReader")
			})
		})
	})
}
