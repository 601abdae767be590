package snapshotstore

import (
	"context"
	"database/sql"
	devenv "dualis-watch/dev/env"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type FileConfig struct {
	Path string `json:"path" validate:"required"`
}

type SQLConfig struct {
	// one of "sqlite", "libsql" or "postgres"
	Driver string `json:"driver" validate:"required,oneof=sqlite libsql postgres"`
	// a file path for sqlite, a database url otherwise
	DSN    string `json:"dsn" validate:"required"`
	Retain int    `json:"retain" validate:"gte=0"`
}

type S3Config struct {
	Bucket          string `json:"bucket" validate:"required"`
	Key             string `json:"key" validate:"required"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	UsePathStyle    bool   `json:"use_path_style"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

// Config selects and configures one snapshot backend.
type Config struct {
	Kind string      `json:"kind" validate:"required,oneof=file sql s3 memory"`
	File *FileConfig `json:"file" validate:"required_if=Kind file"`
	SQL  *SQLConfig  `json:"sql" validate:"required_if=Kind sql"`
	S3   *S3Config   `json:"s3" validate:"required_if=Kind s3"`
}

// Open builds the configured store. The returned function releases any
// resources held by the store.
func (c Config) Open(ctx context.Context) (Store, func() error, error) {
	noop := func() error { return nil }

	switch c.Kind {
	case "memory":
		return NewMemory(), noop, nil
	case "file":
		if c.File == nil {
			return nil, nil, fmt.Errorf("file store is not configured")
		}
		path, err := devenv.ResolvePath(c.File.Path)
		if err != nil {
			return nil, nil, err
		}
		return NewFileStore(path), noop, nil
	case "sql":
		if c.SQL == nil {
			return nil, nil, fmt.Errorf("sql store is not configured")
		}
		db, dialect, err := c.SQL.openDB()
		if err != nil {
			return nil, nil, err
		}
		store, err := NewSQLStore(ctx, db, dialect, c.SQL.Retain)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	case "s3":
		if c.S3 == nil {
			return nil, nil, fmt.Errorf("s3 store is not configured")
		}
		client, err := c.S3.client(ctx)
		if err != nil {
			return nil, nil, err
		}
		return NewS3Store(client, c.S3.Bucket, c.S3.Key), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown snapshot store kind '%s'", c.Kind)
}

func (c SQLConfig) openDB() (*sql.DB, Dialect, error) {
	switch c.Driver {
	case "sqlite":
		path, err := devenv.ResolvePath(c.DSN)
		if err != nil {
			return nil, 0, err
		}
		if path != ":memory:" {
			err = os.MkdirAll(filepath.Dir(path), 0755)
			if err != nil {
				return nil, 0, err
			}
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, 0, err
		}
		db.SetMaxOpenConns(1)
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, 0, err
		}
		return db, DialectSQLite, nil
	case "libsql":
		db, err := sql.Open("libsql", c.DSN)
		return db, DialectSQLite, err
	case "postgres":
		db, err := sql.Open("pgx", c.DSN)
		return db, DialectPostgres, err
	}
	return nil, 0, fmt.Errorf("unknown sql driver '%s'", c.Driver)
}

func (c S3Config) client(ctx context.Context) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	if c.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	}), nil
}
