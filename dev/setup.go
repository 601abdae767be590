package main

import (
	"context"
	"database/sql"
	devenv "dualis-watch/dev/env"
	"dualis-watch/lib/snapshotstore"
	"fmt"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"
)

func CreateSnapshotDB() error {
	path, err := devenv.ResolvePath("<dev_state>/snapshots.db")
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = snapshotstore.NewSQLStore(context.Background(), db, snapshotstore.DialectSQLite, 0)
	return err
}

const dualisConfigTemplate = `{
    base_url: "https://dualis.dhbw.de",
    schedule: "@every 15m",
    store: {
        kind: "sql",
        sql: { driver: "sqlite", dsn: "<dev_state>/snapshots.db", retain: 20 },
    },
    notify: {},
}
`

const envTemplate = `DUALIS_EMAIL=
DUALIS_PASSWORD=
`

const liveTestTemplate = `{
    base_url: "https://dualis.dhbw.de",
    username: "",
    password: "",
}
`

func writeIfMissing(name, contents string) error {
	path, err := devenv.ResolvePath("<dev_state>/" + name)
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		return nil
	}
	fmt.Println("writing template", path)
	return os.WriteFile(path, []byte(contents), 0600)
}

func WriteConfigTemplates() error {
	err := writeIfMissing("dualis.json5", dualisConfigTemplate)
	if err != nil {
		return err
	}
	err = writeIfMissing(".env", envTemplate)
	if err != nil {
		return err
	}
	return writeIfMissing("dualis_config.json5", liveTestTemplate)
}

func PrintConfigLocations() {
	slog.Info("fill in dev/.state/.env and dev/.state/dualis_config.json5 with a real account to run the live tests, see `go test -v` for which tests were skipped.")
}
