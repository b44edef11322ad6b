package db

import (
	"database/sql"
	"embed"
	"errors"
	"log"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations against dsn.
func Migrate(dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Printf("layer=client component=db method=Migrate err=%v", err)
		return errors.Join(ErrInternal, err)
	}
	defer func() { _ = conn.Close() }()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrInternal, err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		log.Printf("layer=client component=db method=Migrate err=%v", err)
		return errors.Join(ErrInternal, err)
	}
	return nil
}
