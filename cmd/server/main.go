package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/config"
	"github.com/fadilmartias/resume-matcher/internal/domain/fiber/handler"
	applog "github.com/fadilmartias/resume-matcher/internal/logger"
	"github.com/fadilmartias/resume-matcher/internal/middleware"
	"github.com/fadilmartias/resume-matcher/internal/repository"
	"github.com/fadilmartias/resume-matcher/internal/service"
	"github.com/fadilmartias/resume-matcher/internal/usecase"
	"github.com/fadilmartias/resume-matcher/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	matchingConfig := config.LoadMatchingConfig()

	zlog, err := applog.New(appConfig.LogJSON, appConfig.LogDebug)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: appConfig.MaxUploadMB * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			if code >= fiber.StatusInternalServerError {
				zlog.Error("request failed", zap.String("path", ctx.Path()), zap.Error(err))
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB(zlog)

	if err := os.MkdirAll(appConfig.UploadDir, 0o755); err != nil {
		zlog.Fatal("could not create upload directory", zap.String("dir", appConfig.UploadDir), zap.Error(err))
	}

	scorer, embedder := buildScorer(ctx, matchingConfig, zlog)
	var tagger *service.SkillTagger
	if matchingConfig.SkillTagging {
		tagger = service.NewSkillTagger()
	}

	archive := buildArchive(ctx, zlog)
	events := buildEventPublisher(zlog)
	defer events.Close()

	jobRepo := repository.NewJobDescriptionRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)

	extractor := util.NewTextExtractor(matchingConfig.OCREnabled, zlog)
	evaluator := usecase.NewEvaluator(extractor, scorer, tagger, zlog)
	matchingUc := usecase.NewMatchingUsecase(jobRepo, candidateRepo, evaluator, archive, events, appConfig.UploadDir, zlog)
	jobUc := usecase.NewJobUsecase(jobRepo, candidateRepo, embedder, archive, zlog)

	handler.NewJobHandler(jobUc).RegisterRoutes(app)
	handler.NewMatchHandler(matchingUc, matchingConfig.MatchRateLimit).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			zlog.Debug("runtime stats", zap.Int("goroutines", runtime.NumGoroutine()))
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("server running",
		zap.String("port", appConfig.Port),
		zap.String("scorer", scorer.Name()),
		zap.Bool("archive", archive.Enabled()),
	)
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func ConnectDB(zlog *zap.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		zlog.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		zlog.Fatal("could not get database instance", zap.Error(err))
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := repository.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	return db
}

func buildScorer(ctx context.Context, cfg *config.MatchingConfig, zlog *zap.Logger) (service.Scorer, service.TextEmbedder) {
	geminiConfig := config.LoadGeminiConfig()
	hfConfig := config.LoadHuggingFaceConfig()

	scorer, embedder, err := service.NewScorer(ctx, service.ScorerOptions{
		Strategy:          cfg.Strategy,
		Timeout:           cfg.ScoringTimeout,
		GeminiAPIKey:      geminiConfig.APIKey,
		EmbeddingModel:    geminiConfig.EmbeddingModel,
		HuggingFaceAPIKey: hfConfig.APIKey,
		HuggingFaceURL:    hfConfig.URL,
	}, zlog)
	if err != nil {
		zlog.Fatal("could not initialise scorer", zap.String("strategy", cfg.Strategy), zap.Error(err))
	}
	return scorer, embedder
}

func buildArchive(ctx context.Context, zlog *zap.Logger) service.ResumeArchiveInterface {
	storageConfig := config.LoadStorageConfig()
	if !storageConfig.Enabled() {
		return service.NopResumeArchive{}
	}
	archive, err := service.NewS3ResumeArchive(ctx, service.S3Options{
		Bucket:    storageConfig.Bucket,
		Endpoint:  storageConfig.Endpoint,
		Region:    storageConfig.Region,
		AccessKey: storageConfig.AccessKey,
		SecretKey: storageConfig.SecretKey,
	})
	if err != nil {
		zlog.Fatal("could not initialise resume archive", zap.Error(err))
	}
	return archive
}

func buildEventPublisher(zlog *zap.Logger) service.EventPublisherInterface {
	brokerConfig := config.LoadBrokerConfig()
	if !brokerConfig.Enabled() {
		return service.NopEventPublisher{}
	}
	publisher, err := service.NewAMQPEventPublisher(brokerConfig.URL, brokerConfig.Exchange)
	if err != nil {
		zlog.Warn("event publishing disabled, broker unreachable", zap.Error(err))
		return service.NopEventPublisher{}
	}
	return publisher
}
