package main

import (
	"flag"

	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/acourtin/thefeed/internal/config"
)

func main() {
	logger := logrus.New()

	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		logger.Fatal("usage: migrate [-dir migrations] <up|down|status>")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatalf("Failed to set dialect: %v", err)
	}

	switch args[0] {
	case "up":
		err = goose.Up(db, *dir)
	case "down":
		err = goose.Down(db, *dir)
	case "status":
		err = goose.Status(db, *dir)
	default:
		logger.Fatalf("Unknown command: %s", args[0])
	}
	if err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}
}
