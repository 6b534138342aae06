package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	appAuth "github.com/timetable/scheduler/internal/app/auth"
	appControllers "github.com/timetable/scheduler/internal/app/controllers"
	appMigrations "github.com/timetable/scheduler/internal/app/migrations"
	"github.com/timetable/scheduler/internal/app/models"
	appRepos "github.com/timetable/scheduler/internal/app/repositories"
	appRoutes "github.com/timetable/scheduler/internal/app/routes"
	appServices "github.com/timetable/scheduler/internal/app/services"
	"github.com/timetable/scheduler/internal/config"
	"github.com/timetable/scheduler/internal/db"
	"github.com/timetable/scheduler/internal/jobs"
	appMiddleware "github.com/timetable/scheduler/internal/middleware"
	pkgAuth "github.com/timetable/scheduler/internal/pkg/auth"
	"github.com/timetable/scheduler/internal/pkg/cache"
	"github.com/timetable/scheduler/internal/pkg/helpers"
	"github.com/timetable/scheduler/internal/pkg/logger"
	"github.com/timetable/scheduler/internal/pkg/validation"
	"github.com/timetable/scheduler/internal/seed"
)

// MetricsNamespace prefixes every exported Prometheus metric.
const MetricsNamespace = "timetable"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	AuthService    *appServices.AuthService
	AdvisorService *appServices.AdvisorService
	Blacklist      cache.TokenBlacklist
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Metrics        *appMiddleware.Metrics
	Scheduler      *jobs.Scheduler
	Logger         zerolog.Logger
}

// Close releases clients owned by the dependencies.
func (d *Dependencies) Close() {
	if rb, ok := d.Blacklist.(*cache.RedisBlacklist); ok {
		if err := rb.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads .env, the configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := config.LoadConfig(config.PathFromEnv())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "timetable-scheduler",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the DEO.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := RunMigrations(ctx, dbPool, cfg.Database.MigrationsDir, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}

	if cfg.SeedEnabled() {
		if _, err := seed.EnsureDEO(ctx, dbPool, SeedAccount(cfg), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to seed DEO user, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// RunMigrations applies pending SQL files from dir.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, dir string, lgr zerolog.Logger) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(pool, lgr).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SeedAccount maps the seed section of cfg onto a DEO account.
func SeedAccount(cfg *config.Config) seed.DEOAccount {
	return seed.DEOAccount{
		Username:   cfg.Seed.DEOUsername,
		Password:   cfg.Seed.DEOPassword,
		Email:      cfg.Seed.DEOEmail,
		Department: cfg.Seed.DEODepartment,
	}
}

// SetupBlacklist connects the Redis blacklist cache, falling back to a no-op
// cache when Redis is not configured or unreachable.
func SetupBlacklist(cfg *config.Config, lgr zerolog.Logger) cache.TokenBlacklist {
	if !cfg.RedisEnabled() {
		lgr.Info().Msg("Redis not configured, token blacklist cache disabled")
		return cache.NoopBlacklist{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	blacklist, err := cache.NewRedisBlacklist(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, lgr)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, token blacklist cache disabled")
		return cache.NoopBlacklist{}
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Token blacklist cache connected")
	return blacklist
}

// NewJWTService builds the token service from cfg.
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 5*time.Minute),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 24*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Blacklist = SetupBlacklist(cfg, lgr)
	deps.JWTService = NewJWTService(cfg)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Blacklist,
		deps.JWTService,
		lgr,
	)
	deps.AdvisorService = appServices.NewAdvisorService(
		deps.Repos.AdvisorRepository,
		deps.Repos.UserRepository,
		deps.AuthzService,
		lgr,
	)

	scheduler, err := jobs.NewScheduler(cfg.Jobs.TokenCleanupSchedule, deps.AuthService, lgr)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Scheduler = scheduler

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthService)
	deps.Metrics = appMiddleware.NewMetrics(MetricsNamespace)

	pingers := map[string]appControllers.Pinger{"database": dbPool}
	if cfg.RedisEnabled() {
		pingers["redis"] = deps.Blacklist
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.AuthService, lgr),
		Advisors:  appControllers.NewAdvisorController(deps.AdvisorService, lgr),
		Health:    appControllers.NewHealthController(pingers),
		Resources: buildResources(deps.Repos, lgr),
	}

	return deps, nil
}

func resource[T any](path, name string, store appServices.ResourceStore[T], lgr zerolog.Logger) appRoutes.Resource {
	svc := appServices.NewResourceService(name, store, lgr)
	return appRoutes.Resource{Path: path, Controller: appControllers.NewResourceController(svc, lgr)}
}

func buildResources(r *appRepos.Repositories, lgr zerolog.Logger) []appRoutes.Resource {
	return []appRoutes.Resource{
		resource[models.Department]("/departments", "department", r.Departments, lgr),
		resource[models.Year]("/years", "year", r.Years, lgr),
		resource[models.Batch]("/batches", "batch", r.Batches, lgr),
		resource[models.Section]("/sections", "section", r.Sections, lgr),
		resource[models.Teacher]("/teachers", "teacher", r.Teachers, lgr),
		resource[models.Room]("/rooms", "room", r.Rooms, lgr),
		resource[models.Course]("/courses", "course", r.Courses, lgr),
		resource[models.TeacherCourseAssignment]("/teacher-course-assignments", "teacher course assignment", r.TeacherCourseAssignments, lgr),
		resource[models.BatchCourseTeacherAssignment]("/batch-course-teacher-assignments", "batch course teacher assignment", r.BatchCourseTeacherAssignments, lgr),
		resource[models.Compensatory]("/compensatory", "compensatory", r.Compensatory, lgr),
		resource[models.CoursePreferenceConstraints]("/course-preference-constraints", "course preference constraint", r.CoursePreferenceConstraints, lgr),
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterWithGin()

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
		deps.Metrics.Middleware(),
	)

	router.GET("/metrics", deps.Metrics.Handler())
	appRoutes.SetupSwagger(router, cfg.Server.PublicHost)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
