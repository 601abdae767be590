package testutil

import (
	"database/sql"
	devenv "dualis-watch/dev/env"
	"dualis-watch/lib/telemetry"
	"fmt"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

type Params struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type Result struct {
	DB *sql.DB
}

// Setup configures telemetry for a test and opens a sqlite database with
// the given schema. The returned function must be called when the test ends.
func Setup(t testing.TB, params Params) (Result, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	if params.DbSchema == "" {
		return Result{}, cleanup
	}

	dbpath := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.DbPath)
		if err != nil {
			t.Fatal(err)
		}
	}
	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	_, err = db.Exec(params.DbSchema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}

	return Result{DB: db}, func() {
		db.Close()
		cleanup()
	}
}
