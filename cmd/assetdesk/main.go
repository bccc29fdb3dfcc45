package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/assetdesk/internal/api"
	"github.com/erazemk/assetdesk/internal/config"
	"github.com/erazemk/assetdesk/internal/db"
	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/officeclient"
	"github.com/erazemk/assetdesk/internal/store"
	"github.com/erazemk/assetdesk/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	debug, err := parseFlags(cfg, os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogPath, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		closeLog()
		os.Exit(1)
	}
}

// parseFlags overrides cfg with command-line flags. Environment values are
// the flag defaults.
func parseFlags(cfg *config.Config, args []string) (bool, error) {
	fs := flag.NewFlagSet("assetdesk", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.AdminUser, "user", cfg.AdminUser, "")
	fs.StringVar(&cfg.AdminUser, "u", cfg.AdminUser, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")
	fs.StringVar(&cfg.Office.URL, "office-url", cfg.Office.URL, "")

	var debug bool
	fs.BoolVar(&debug, "debug", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: assetdesk [flags]

Flags:
  -d, -db <path>          SQLite database path (env ASSETDESK_DB, default: assetdesk.sqlite3)
  -a, -addr <host:port>   listen address (env ASSETDESK_ADDR, default: :8080)
  -u, -user <name>        admin username on first run (env ASSETDESK_ADMIN_USER, default: Admin)
  -l, -log <path>         log file path (env ASSETDESK_LOG, default: stdout/stderr only)
  -office-url <url>       remote default-office API (env OFFICE_API_URL, default: local database)
  -debug                  log debug messages
  -h, -help               show this help and exit

Settings are also read from .env and .env.local.
`)
	}

	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return false, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return debug, cfg.Validate()
}

func run(cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// First run: create the database and an admin account.
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		database, password, err := initDatabase(cfg.DBPath, cfg.AdminUser)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		database.Close()

		printInitResult(cfg.DBPath, cfg.AdminUser, password)
		fmt.Println()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(api.Options{
		DB:        database,
		JWTSecret: jwtSecret,
		Tenant:    cfg.Tenant,
		Offices:   officeSource(cfg, database),
		Location:  loc,
	}))
	if cfg.Prometheus.Enabled {
		mux.Handle("GET "+cfg.Prometheus.Path, promhttp.Handler())
		slog.Info("metrics enabled", "path", cfg.Prometheus.Path)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "timezone", loc.String())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}

// officeSource picks where the default office is read from.
func officeSource(cfg *config.Config, database *sql.DB) validation.OfficeSource {
	if cfg.Office.URL == "" {
		return store.Offices{DB: database}
	}
	slog.Info("using remote office API", "url", cfg.Office.URL, "timeout", cfg.Office.Timeout)
	return officeclient.New(cfg.Office.URL, cfg.Office.Token, cfg.Office.Timeout)
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(path, adminUsername string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := store.CreateUser(context.Background(), database, adminUsername, string(hash), model.RoleAdmin); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
