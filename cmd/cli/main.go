package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/mcsoccercamp/camp-api/config"
	"github.com/mcsoccercamp/camp-api/domain/gallery"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/migrations"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		// os.Exit skips deferred calls, so the handle is closed before deciding the exit code.
		err := runWithDatabase(logger, openDatabase(logger), func(sqlDB *sql.DB) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			return migrations.Up(ctx, sqlDB, migrationsConfig(logger))
		})
		if err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}

		logger.Info("Database migrations completed")
		return

	case "migrate-version":
		var state migrations.State
		err := runWithDatabase(logger, openDatabase(logger), func(sqlDB *sql.DB) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			var err error
			state, err = migrations.CurrentVersion(ctx, sqlDB, migrationsConfig(logger))
			return err
		})
		if err != nil {
			logger.Error("Failed to read migration version", "error", err.Error())
			os.Exit(1)
		}

		if !state.Applied {
			fmt.Println("no migrations applied")
			return
		}
		fmt.Printf("version %d (dirty: %t)\n", state.Version, state.Dirty)
		return

	case "check-waiver-pdf":
		path := utils.GetEnvTrimmed("WAIVER_PDF_PATH")
		if len(args) > 1 {
			path = args[1]
		}
		if path == "" {
			fmt.Fprintln(os.Stderr, "WAIVER_PDF_PATH is not set and no path was given")
			os.Exit(1)
		}

		attachment, err := config.LoadWaiverAttachment(path)
		if err != nil {
			logger.Error("Waiver PDF check failed", "path", path, "error", err.Error())
			os.Exit(1)
		}

		fmt.Printf("%s is a PDF (%d bytes) and will be attached to confirmations\n", attachment.Filename, len(attachment.Data))
		return

	case "gallery-add":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: cli gallery-add <filename>")
			os.Exit(1)
		}

		manifest := utils.GetEnvTrimmed("GALLERY_MANIFEST")
		if manifest == "" {
			fmt.Fprintln(os.Stderr, "GALLERY_MANIFEST is not set")
			os.Exit(1)
		}

		if dir := utils.GetEnvTrimmed("GALLERY_DIR"); dir != "" {
			if _, err := os.Stat(dir + string(os.PathSeparator) + args[1]); err != nil {
				logger.Warn("Gallery file not found in GALLERY_DIR; add it before deploying", "file", args[1], "dir", dir)
			}
		}

		added, err := gallery.AppendToManifest(manifest, args[1])
		if err != nil {
			logger.Error("Failed to update gallery manifest", "error", err.Error())
			os.Exit(1)
		}

		if added {
			fmt.Printf("added %s to %s\n", args[1], manifest)
		} else {
			fmt.Printf("%s is already listed in %s\n", args[1], manifest)
		}
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func migrationsConfig(logger *log.Logger) migrations.Config {
	return migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Logger: logger,
	}
}

func openDatabase(logger *log.Logger) *sql.DB {
	db, err := config.NewDatabase(logger, config.NewDBConfig())
	if err != nil {
		logger.Error("Failed to connect to database for migration", "error", err.Error())
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance for migration", "error", err.Error())
		os.Exit(1)
	}
	return sqlDB
}

// runWithDatabase runs fn and always closes sqlDB before returning fn's error.
func runWithDatabase(logger *log.Logger, sqlDB *sql.DB, fn func(*sql.DB) error) error {
	defer closeDatabase(logger, sqlDB)
	return fn(sqlDB)
}

func closeDatabase(logger *log.Logger, sqlDB *sql.DB) {
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
	}
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate                 Run database migrations and exit")
	fmt.Println("  migrate-version         Print the applied schema version")
	fmt.Println("  check-waiver-pdf [path] Verify the waiver PDF attached to confirmation emails")
	fmt.Println("  gallery-add <filename>  Append a file to the gallery manifest")
}
