package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"budgsmart/importer"
	"budgsmart/ledger"
	"budgsmart/models"
	"budgsmart/storage/gormstore"
)

var (
	appLog    zerolog.Logger
	jwtSecret []byte
	appConfig Config
	books     *ledger.Ledger
)

func main() {
	appLog = newLogger()

	cfg, err := loadConfig()
	if err != nil {
		appLog.Fatal().Err(err).Msg("configuration error")
	}
	appConfig = cfg
	jwtSecret = []byte(cfg.JWTSecret)

	// Support a lightweight migrate command: `./budgsmart migrate`
	// runs AutoMigrate and seeding then exits. Useful for CI or manual setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := initDB(cfg); err != nil {
			appLog.Fatal().Err(err).Msg("failed to connect postgres database")
		}
		appLog.Info().Msg("migration and seeding completed")
		return
	}

	if err := initDB(cfg); err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect postgres database")
	}

	books = ledger.New(gormstore.New(db))

	if cfg.ImportDir != "" {
		go runImportWatcher(cfg)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(appLog))

	setupRoutes(r)

	appLog.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		appLog.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func runImportWatcher(cfg Config) {
	if cfg.ImportAccount == "" {
		appLog.Warn().Msg("IMPORT_DIR set but IMPORT_ACCOUNT missing; watcher disabled")
		return
	}
	var user models.User
	if err := db.Where("email = ?", cfg.ImportAccount).First(&user).Error; err != nil {
		appLog.Warn().Str("email", cfg.ImportAccount).Msg("import account not found; watcher disabled")
		return
	}
	w := importer.NewWatcher(books, appLog, user.ID, cfg.ImportDir)
	if err := w.Run(context.Background()); err != nil && err != context.Canceled {
		appLog.Error().Err(err).Msg("import watcher stopped")
	}
}
