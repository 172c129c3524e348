package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gitaufar/technoday-sub001/internal/analysis"
	googleauth "github.com/gitaufar/technoday-sub001/internal/auth"
	"github.com/gitaufar/technoday-sub001/internal/companies"
	"github.com/gitaufar/technoday-sub001/internal/contracts"
	"github.com/gitaufar/technoday-sub001/internal/docstore"
	"github.com/gitaufar/technoday-sub001/internal/entities"
	"github.com/gitaufar/technoday-sub001/internal/lifecycle"
	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/notes"
	"github.com/gitaufar/technoday-sub001/internal/pipeline"
	"github.com/gitaufar/technoday-sub001/internal/risk"
	sharedauth "github.com/gitaufar/technoday-sub001/internal/shared/auth"
	"github.com/gitaufar/technoday-sub001/internal/shared/config"
	"github.com/gitaufar/technoday-sub001/internal/shared/metrics"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/middleware"
	"github.com/gitaufar/technoday-sub001/internal/shared/server/respond"
	"github.com/gitaufar/technoday-sub001/internal/shared/storage/db"
	"github.com/gitaufar/technoday-sub001/internal/shared/storage/object"
	localstore "github.com/gitaufar/technoday-sub001/internal/shared/storage/object/local"
	miniostore "github.com/gitaufar/technoday-sub001/internal/shared/storage/object/minio"
	s3store "github.com/gitaufar/technoday-sub001/internal/shared/storage/object/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	sharedauth.Configure(cfg.JWTSecret)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"UPLOAD": {Rate: 0.5, Burst: 3},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/document") {
					return "UPLOAD"
				}
				return ""
			},
		}),
	)

	// Dependencies
	sqlDB := connectDB(cfg)
	store := buildStore(cfg)
	bus := buildBus(cfg)

	var (
		contractRepo contracts.Repo
		entityRepo   entities.Repo
		riskRepo     risk.Repo
		noteRepo     notes.Repo
		stageRepo    lifecycle.Repo
		memberRepo   companies.Repo
	)
	if sqlDB != nil {
		contractRepo = &contracts.PGRepo{DB: sqlDB}
		entityRepo = &entities.PGRepo{DB: sqlDB}
		riskRepo = &risk.PGRepo{DB: sqlDB}
		noteRepo = &notes.PGRepo{DB: sqlDB}
		stageRepo = &lifecycle.PGRepo{DB: sqlDB}
		memberRepo = &companies.PGRepo{DB: sqlDB}
	} else {
		contractRepo = contracts.NewMemoryRepo()
		entityRepo = entities.NewMemoryRepo()
		riskRepo = risk.NewMemoryRepo()
		noteRepo = notes.NewMemoryRepo()
		stageRepo = lifecycle.NewMemoryRepo()
		memberRepo = companies.NewMemoryRepo()
	}

	contractSvc := contracts.NewService(contractRepo, bus)
	detailSvc := &contracts.DetailService{
		Contracts: contractSvc,
		Entities:  entityRepo,
		Risk:      riskRepo,
		Notes:     noteRepo,
		Lifecycle: stageRepo,
	}
	noteSvc := notes.NewService(noteRepo, bus)
	stageSvc := lifecycle.NewService(stageRepo, bus)

	docs := docstore.New(store, cfg.MaxUploadBytes, cfg.UploadTimeout)
	analyzer := analysis.NewHTTPClient(cfg.AnalysisBaseURL, cfg.AnalysisTimeout)
	orchestrator := pipeline.NewOrchestrator(docs, analyzer, contractRepo, entityRepo, riskRepo, bus)

	contractHandler := contracts.NewHandler(contractSvc, detailSvc)
	noteHandler := notes.NewHandler(noteSvc)
	stageHandler := lifecycle.NewHandler(stageSvc)
	riskHandler := risk.NewHandler(riskRepo)
	pipelineHandler := pipeline.NewHandler(orchestrator, cfg.MaxUploadBytes)
	googleAuthSvc := googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, memberRepo)

	r.GET("/metrics", metrics.Handler())
	if cfg.ObjectStoreType == "local" || cfg.ObjectStoreType == "" {
		r.Static("/files", cfg.LocalStoreDir)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	googleAuthSvc.RegisterRoutes(api)
	contractHandler.RegisterRoutes(api)
	pipelineHandler.RegisterRoutes(api)
	noteHandler.RegisterRoutes(api)
	stageHandler.RegisterRoutes(api)
	riskHandler.RegisterRoutes(api)

	return r
}

func connectDB(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	ctx := context.Background()
	conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		log.Printf("failed to connect database, falling back to memory: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Printf("failed to run migrations, falling back to memory: %v", err)
		return nil
	}
	return conn
}

func buildStore(cfg config.Config) object.ObjectStore {
	ctx := context.Background()
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("failed to build s3 store, falling back to local: %v", err)
			break
		}
		return store
	case "minio":
		store, err := miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Printf("failed to build minio store, falling back to local: %v", err)
			break
		}
		return store
	}
	return localstore.New(cfg.LocalStoreDir, "/files")
}

func buildBus(cfg config.Config) live.Bus {
	if cfg.RedisAddr == "" {
		return live.NewMemoryBus()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("failed to reach redis, using in-process bus: %v", err)
		return live.NewMemoryBus()
	}
	return live.NewRedisBus(client)
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
