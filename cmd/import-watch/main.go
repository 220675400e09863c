// Command import-watch watches a drop directory and imports CSV transaction
// files into one account. Useful for feeding bank exports into budgsmart
// without going through the API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"budgsmart/importer"
	"budgsmart/ledger"
	"budgsmart/models"
	"budgsmart/storage/gormstore"
)

func main() {
	_ = godotenv.Load()

	var (
		dsn     = flag.String("dsn", os.Getenv("DB_DSN"), "postgres dsn")
		email   = flag.String("account", os.Getenv("IMPORT_ACCOUNT"), "account email to import into")
		dir     = flag.String("dir", envOr("IMPORT_DIR", "import"), "drop directory to watch")
		oneShot = flag.Bool("once", false, "import existing files and exit instead of watching")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	if *dsn == "" {
		log.Fatal().Msg("a postgres dsn is required (-dsn or DB_DSN)")
	}
	if *email == "" {
		log.Fatal().Msg("an account email is required (-account or IMPORT_ACCOUNT)")
	}

	db, err := gorm.Open(postgres.Open(*dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres database")
	}

	var user models.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatal().Str("email", *email).Msg("account not found")
	}

	books := ledger.New(gormstore.New(db))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *oneShot {
		entries, err := os.ReadDir(*dir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", *dir).Msg("cannot read import dir")
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
				continue
			}
			res, err := importer.ImportFile(ctx, books, log, user.ID, filepath.Join(*dir, e.Name()))
			if err != nil {
				log.Error().Err(err).Str("file", e.Name()).Msg("import failed")
				continue
			}
			log.Info().Str("file", e.Name()).Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("imported")
		}
		return
	}

	w := importer.NewWatcher(books, log, user.ID, *dir)
	log.Info().Str("dir", *dir).Str("account", *email).Msg("watching for csv files")
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("watcher stopped")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
