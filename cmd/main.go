package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sbilibin2017/remindme-store/internal/auth"
	"github.com/sbilibin2017/remindme-store/internal/jwt"
	"github.com/sbilibin2017/remindme-store/internal/logger"
	"github.com/sbilibin2017/remindme-store/internal/repositories"
	"github.com/sbilibin2017/remindme-store/internal/services"
	"github.com/sbilibin2017/remindme-store/internal/storage"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

func main() {
	printBuildInfo()
	configPath := parseFlags()

	dbPath, logLevel, jwtSecret, jwtExp, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), dbPath, logLevel, jwtSecret, jwtExp); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// database path, log level, and session token configuration.
func parseConfig(path string) (dbPath, logLevel, jwtSecretKey string, jwtExpSecond int, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	dbPath = getEnv("APP_DB_PATH", "./data/remindme.db")
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "86400")); err != nil {
		return
	}

	return
}

// run initializes the logger and storage, wires the services and session
// manager, restores any cached session, and waits for shutdown.
func run(ctx context.Context, dbPath, logLevel, jwtSecretKey string, jwtExpSecond int) error {
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Open the embedded store. Schema creation failure aborts startup;
	// there is no degraded mode.
	store := storage.Default(dbPath)
	if err := store.Initialize(ctx); err != nil {
		return err
	}
	defer store.Close()
	logger.Log.Infof("Storage initialized at %s", dbPath)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(store)
	reminderRepo := repositories.NewReminderRepository(store)
	feedbackRepo := repositories.NewFeedbackRepository(store)
	sessionCache := repositories.NewSessionCacheRepository(store)

	// Initialize services
	userService := services.NewUserService(userRepo)
	reminderService := services.NewReminderService(reminderRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo)

	// Initialize session manager
	tokens := jwt.New(jwtSecretKey, time.Duration(jwtExpSecond)*time.Second)
	session := auth.NewManager(userService, reminderService, sessionCache, tokens)

	session.CheckAuthStatus(ctx)
	logger.Log.Infof("Session restored with state %q", session.State())

	if session.State() == auth.StateAuthenticated {
		if stats := session.GetUserStats(ctx); stats != nil {
			logger.Log.Infow("reminder stats", "total", stats.Total, "pending", stats.Pending, "this_week", stats.ThisWeek)
		}
		if res := feedbackService.GetForUser(ctx, session.CurrentUser().ID); res.Success {
			logger.Log.Infow("feedback loaded", "count", len(res.Data))
		}
	}

	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	<-ctxShutdown.Done()
	logger.Log.Info("Shutdown signal received, closing storage...")

	if err := store.Close(); err != nil {
		logger.Log.Errorw("storage close error", "error", err)
		return err
	}

	logger.Log.Info("Storage closed gracefully")
	return nil
}
