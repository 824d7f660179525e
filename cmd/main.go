package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/essay_bot/internal/archive"
	"github.com/Vovarama1992/essay_bot/internal/config"
	"github.com/Vovarama1992/essay_bot/internal/delivery"
	"github.com/Vovarama1992/essay_bot/internal/dialog"
	"github.com/Vovarama1992/essay_bot/internal/error_notificator"
	"github.com/Vovarama1992/essay_bot/internal/gateway"
	"github.com/Vovarama1992/essay_bot/internal/sessions"
	"github.com/Vovarama1992/essay_bot/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, err := newZap(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer baseLogger.Sync()

	sugar := baseLogger.Sugar()
	zl := logger.NewZapLogger(sugar)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// SESSIONS
	// =========================================================================

	store := sessions.NewMemoryStore(cfg.SessionTTL)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		if err == nil {
			err = sessions.EnsureSchema(pingCtx, db)
		}
		cancel()
		if err != nil {
			log.Fatalf("db init failed: %v", err)
		}

		store = sessions.NewPostgresStore(db, cfg.SessionTTL)
		sugar.Infow("[main] sessions in postgres")
	}

	// =========================================================================
	// ARCHIVE
	// =========================================================================

	arch := archive.NewNoop()
	if cfg.S3.Enabled() {
		arch, err = archive.NewS3Archive(ctx, cfg.S3, sugar)
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		sugar.Infow("[main] archive in s3", "bucket", cfg.S3.Bucket)
	}

	// =========================================================================
	// TELEGRAM
	// =========================================================================

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}
	sugar.Infow("[main] bot ready", "username", bot.Self.UserName)

	errService := error_notificator.NewService(
		error_notificator.NewInfra(bot, cfg.AdminChatID, sugar),
	)

	// =========================================================================
	// GATEWAY / DIALOG
	// =========================================================================

	if cfg.OpenAIKey == "" {
		sugar.Warnw("[main] OPENAI_API_KEY is not set, generation will answer with a config error")
	}
	if cfg.TextRuKey == "" {
		sugar.Warnw("[main] TEXTRU_API_KEY is not set, checks will answer with a config error")
	}

	gw := gateway.New(
		gateway.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.RequestTimeout),
		gateway.NewTextRuClient(cfg.TextRuKey, cfg.TextRuURL, cfg.RequestTimeout),
		sugar,
	)

	controller := dialog.NewController(store, gw, arch, errService, sugar)
	botApp := telegram.NewBotApp(bot, controller, errService, sugar)

	// =========================================================================
	// HTTP
	// =========================================================================

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           delivery.NewRouter(delivery.NewSessionHandler(store, zl), cfg.AdminToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "listening at " + srv.Addr,
			Service: "essay_bot",
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// =========================================================================
	// RUN
	// =========================================================================

	botApp.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("[main] http shutdown", "err", err)
	}

	sugar.Infow("[main] bye")
}

func newZap(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
