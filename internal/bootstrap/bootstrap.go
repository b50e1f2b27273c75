package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/isms-esp/diploma-registry/internal/app/controllers"
	appMigrations "github.com/isms-esp/diploma-registry/internal/app/migrations"
	appRepos "github.com/isms-esp/diploma-registry/internal/app/repositories"
	appRoutes "github.com/isms-esp/diploma-registry/internal/app/routes"
	appServices "github.com/isms-esp/diploma-registry/internal/app/services"
	"github.com/isms-esp/diploma-registry/internal/config"
	"github.com/isms-esp/diploma-registry/internal/db"
	appMiddleware "github.com/isms-esp/diploma-registry/internal/middleware"
	pkgAuth "github.com/isms-esp/diploma-registry/internal/pkg/auth"
	"github.com/isms-esp/diploma-registry/internal/pkg/filestorage"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
	"github.com/isms-esp/diploma-registry/internal/pkg/pdftemplate"
	"github.com/isms-esp/diploma-registry/internal/pkg/ratelimit"
	"github.com/isms-esp/diploma-registry/internal/pkg/sealing"
	"github.com/isms-esp/diploma-registry/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthController         *appControllers.AuthController
	StudentController      *appControllers.StudentController
	CatalogController      *appControllers.CatalogController
	StructureController    *appControllers.StructureController
	DiplomaController      *appControllers.DiplomaController
	VerificationController *appControllers.VerificationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	FileStorage            *filestorage.LocalStorage
	Renderer               *pdftemplate.Renderer
	VerifyLimiter          *ratelimit.Limiter
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations
// and seeds the default admin account and diploma structure.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer seedCancel()
	if err := seed.CreateDefaultData(seedCtx, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data")
		dbPool.Close()
		return nil, fmt.Errorf("default data seeding failed: %w", err)
	}

	return dbPool, nil
}

// BuildDependencies wires repositories, services, controllers and
// middleware into a Dependencies container.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	repos := appRepos.NewRepositories(dbPool)

	fileStorage, err := filestorage.NewLocalStorage(cfg.Storage.DocumentRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document storage: %w", err)
	}

	renderer := pdftemplate.NewRenderer(cfg.Storage.FontsDir, cfg.Storage.AssetsDir, cfg.Verification.FrontendBaseURL)

	// The concrete sealer stays behind a nil interface when credentials
	// are absent so the issuance service sees it as truly missing.
	var sealer appServices.DocumentSealer
	if concreteSealer, err := buildSealer(cfg, lgr); err != nil {
		return nil, err
	} else if concreteSealer != nil {
		sealer = concreteSealer
	}

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenDuration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Services
	authService := appServices.NewAuthService(repos.UserRepository, jwtService)
	studentService := appServices.NewStudentService(repos.StudentRepository, repos.ProgramRepository, repos.AcademicYearRepository)
	catalogService := appServices.NewCatalogService(repos.ProgramRepository, repos.AcademicYearRepository)
	structureService := appServices.NewStructureService(repos.StructureRepository)
	issuanceService := appServices.NewIssuanceService(
		repos.StudentRepository,
		repos.StructureRepository,
		repos.DiplomaRepository,
		renderer,
		sealer,
		fileStorage,
		cfg.Signing.Required,
	)
	diplomaService := appServices.NewDiplomaService(repos.DiplomaRepository, fileStorage)
	revocationService := appServices.NewRevocationService(repos.DiplomaRepository)
	verificationService := appServices.NewVerificationService(repos.DiplomaRepository, repos.VerificationEventRepository, nil)
	auditService := appServices.NewAuditService(repos.VerificationEventRepository, repos.DiplomaRepository, repos.StudentRepository)

	// Controllers
	authController := appControllers.NewAuthController(authService)
	studentController := appControllers.NewStudentController(studentService)
	catalogController := appControllers.NewCatalogController(catalogService)
	structureController := appControllers.NewStructureController(structureService)
	diplomaController := appControllers.NewDiplomaController(issuanceService, diplomaService, revocationService, renderer)
	verificationController := appControllers.NewVerificationController(verificationService, auditService)

	authMiddleware := appMiddleware.NewAuthMiddleware(jwtService)

	verifyLimiter := buildVerifyLimiter(cfg, lgr)

	return &Dependencies{
		AuthController:         authController,
		StudentController:      studentController,
		CatalogController:      catalogController,
		StructureController:    structureController,
		DiplomaController:      diplomaController,
		VerificationController: verificationController,
		AuthMiddleware:         authMiddleware,
		Repos:                  repos,
		JWTService:             jwtService,
		FileStorage:            fileStorage,
		Renderer:               renderer,
		VerifyLimiter:          verifyLimiter,
		Logger:                 lgr,
	}, nil
}

// buildSealer loads the signing credentials. A load failure is fatal
// when signing is required; otherwise issuance proceeds unsigned.
func buildSealer(cfg *config.Config, lgr zerolog.Logger) (*sealing.Sealer, error) {
	creds, err := sealing.LoadCredentials(cfg.Signing.KeyPath, cfg.Signing.CertPath)
	if err != nil {
		if cfg.Signing.Required {
			lgr.Error().Err(err).
				Str("keyPath", cfg.Signing.KeyPath).
				Str("certPath", cfg.Signing.CertPath).
				Msg("Failed to load signing credentials and signing is required")
			return nil, fmt.Errorf("failed to load signing credentials: %w", err)
		}
		lgr.Warn().Err(err).Msg("Signing credentials unavailable, diplomas will be issued unsigned")
		return nil, nil
	}
	return sealing.NewSealer(creds, cfg.Signing.Reason, cfg.Signing.Location), nil
}

// buildVerifyLimiter picks the redis-backed store when an address is
// configured and falls back to the in-process store otherwise.
func buildVerifyLimiter(cfg *config.Config, lgr zerolog.Logger) *ratelimit.Limiter {
	var store ratelimit.Store
	if cfg.Verification.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Verification.RedisAddr,
			Password: cfg.Verification.RedisPassword,
			DB:       cfg.Verification.RedisDB,
		})
		redisStore := ratelimit.NewRedisStore(client, "verify")

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Str("addr", cfg.Verification.RedisAddr).
				Msg("Redis unreachable, using in-process rate-limit store")
			store = ratelimit.NewMemoryStore()
		} else {
			lgr.Info().Str("addr", cfg.Verification.RedisAddr).Msg("Redis rate-limit store enabled")
			store = redisStore
		}
	} else {
		store = ratelimit.NewMemoryStore()
	}

	return ratelimit.NewLimiter(store, cfg.Verification.RateLimit, cfg.RateWindowDuration())
}

// SetupRouter configures the Gin engine with global middleware and
// all application routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.CatalogController,
		deps.StructureController,
		deps.DiplomaController,
		deps.VerificationController,
		deps.AuthMiddleware,
		deps.VerifyLimiter,
		deps.Repos.VerificationEventRepository,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
