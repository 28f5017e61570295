package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/venkateshdh/gotours-backend/internal/importer"
	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/db"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "importer"})

	_ = godotenv.Load()

	doImport := flag.Bool("import", false, "load the fixture data into the database")
	doDelete := flag.Bool("delete", false, "wipe all fixture-managed tables")
	dir := flag.String("dir", "data", "directory holding tours.json, users.json, reviews.json")
	flag.Parse()

	if *doImport == *doDelete {
		fmt.Fprintln(os.Stderr, "pass exactly one of -import or -delete")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "importer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	svc, err := importer.NewService(dbClient.DB(), cfg.Password, logg)
	requireResource(ctx, logg, "importer", err)

	if *doDelete {
		if err := svc.Delete(ctx); err != nil {
			logg.Error(ctx, "fixture wipe failed", err)
			os.Exit(1)
		}
		fmt.Println("data successfully deleted!")
		return
	}

	if err := svc.Import(ctx, *dir); err != nil {
		logg.Error(ctx, "fixture load failed", err)
		os.Exit(1)
	}
	fmt.Println("data successfully loaded!")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
