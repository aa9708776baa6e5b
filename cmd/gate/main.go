package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/config"
	"github.com/chirper-app/gatekit/pkg/login"
	loginapi "github.com/chirper-app/gatekit/pkg/login/api"
	"github.com/chirper-app/gatekit/pkg/loginhistory"
	loginhistoryapi "github.com/chirper-app/gatekit/pkg/loginhistory/api"
	"github.com/chirper-app/gatekit/pkg/notice"
	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/post"
	postapi "github.com/chirper-app/gatekit/pkg/post/api"
	"github.com/chirper-app/gatekit/pkg/ratelimit"
	"github.com/chirper-app/gatekit/pkg/router"
	"github.com/chirper-app/gatekit/pkg/tokengenerator"
	"github.com/chirper-app/gatekit/pkg/verification"
	verificationapi "github.com/chirper-app/gatekit/pkg/verification/api"
)

type AppConfig struct {
	Host string `env:"GATE_HOST" env-default:"0.0.0.0"`
	Port uint16 `env:"GATE_PORT" env-default:"4000"`

	// Persistence selects the code and account stores: postgres or memory.
	Persistence   string `env:"GATE_PERSISTENCE" env-default:"postgres"`
	MigrationsDir string `env:"GATE_MIGRATIONS_DIR" env-default:"migrations"`

	Database config.DatabaseConfig
	Email    config.EmailConfig
	Jwt      config.JwtConfig
	Gate     config.GateConfig
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg := AppConfig{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed reading configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(cfg); err != nil {
		slog.Error("Gate service failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg AppConfig) error {
	ctx := context.Background()

	// Parsed durations and windows fail fast at startup.
	codeExpiry, err := cfg.Gate.CodeExpiryDuration()
	if err != nil {
		return fmt.Errorf("invalid GATE_CODE_EXPIRY: %w", err)
	}
	grantExpiry, err := cfg.Gate.GrantExpiryDuration()
	if err != nil {
		return fmt.Errorf("invalid GATE_GRANT_EXPIRY: %w", err)
	}
	tokenExpiry, err := cfg.Jwt.TokenExpiryDuration()
	if err != nil {
		return fmt.Errorf("invalid JWT_TOKEN_EXPIRY: %w", err)
	}
	loginWindow, err := cfg.Gate.LoginWindowPolicy()
	if err != nil {
		return fmt.Errorf("invalid GATE_LOGIN_WINDOW: %w", err)
	}
	audioWindow, err := cfg.Gate.AudioWindowPolicy()
	if err != nil {
		return fmt.Errorf("invalid GATE_AUDIO_WINDOW: %w", err)
	}

	// Stores.
	var (
		pool        *pgxpool.Pool
		otpRepo     otp.OtpRepository
		accountRepo account.AccountRepository
		postRepo    post.PostRepository
		historyRepo loginhistory.LoginHistoryRepository
	)
	switch cfg.Persistence {
	case "postgres", "postgresql":
		if err := runMigrations(cfg); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		pool, err = pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed creating db pool: %w", err)
		}
		defer pool.Close()

		accountRepo = account.NewPostgresAccountRepository(pool)
		postRepo = post.NewPostgresPostRepository(pool)
		historyRepo = loginhistory.NewPostgresLoginHistoryRepository(pool)
	case "memory":
		accountRepo = account.NewMemoryAccountRepository()
		postRepo = post.NewMemoryPostRepository()
		historyRepo = loginhistory.NewMemoryLoginHistoryRepository()
	default:
		return fmt.Errorf("unsupported persistence type: %s", cfg.Persistence)
	}

	otpRepo, err = otp.NewOtpRepository(cfg.Persistence, otp.RepositoryConfig{Pool: pool})
	if err != nil {
		return err
	}

	// Notifications.
	notificationManager, err := notice.NewNotificationManager(cfg.Email.ToSMTPConfig())
	if err != nil {
		return fmt.Errorf("failed creating notification manager: %w", err)
	}

	// Services.
	otpService := otp.NewOtpService(otpRepo, notificationManager, otp.WithCodeExpiry(codeExpiry))

	issueThrottle := ratelimit.NewIssueThrottle(cfg.Gate.IssueBurst, cfg.Gate.IssuePerMinute/60.0, time.Hour)
	resetThrottle := login.NewResetDayThrottle(accountRepo, cfg.Gate.TzOffset())

	flow := verification.NewFlowService(otpService,
		verification.WithPolicy(otp.PurposeAudioPost, audioWindow),
		verification.WithThrottle(otp.PurposeLoginStepUp, issueThrottle),
		verification.WithThrottle(otp.PurposeAudioPost, issueThrottle),
		verification.WithThrottle(otp.PurposeLanguageChange, issueThrottle),
		verification.WithThrottle(otp.PurposePasswordReset, resetThrottle),
		verification.WithGrantTTL(grantExpiry),
	)

	tokenGenerator := tokengenerator.NewJwtTokenGenerator(cfg.Jwt.Secret, cfg.Jwt.Issuer, cfg.Jwt.Audience)
	historyService := loginhistory.NewLoginHistoryService(historyRepo)

	loginService := login.NewLoginService(
		accountRepo,
		login.NewBcryptHasher(0),
		flow,
		tokenGenerator,
		notificationManager,
		login.WithMobileWindow(loginWindow),
		login.WithLoginHistory(historyService),
		login.WithTokenExpiry(tokenExpiry),
	)

	accountService := account.NewAccountService(accountRepo)
	postService := post.NewPostService(postRepo, accountRepo, flow)

	// HTTP surface.
	mux := router.SetupRoutes(router.Config{
		LoginHandler:            loginapi.NewHandler(loginService),
		VerificationHandler:     verificationapi.NewHandler(flow, accountService),
		PostHandler:             postapi.NewHandler(postService),
		HistoryHandler:          loginhistoryapi.NewHandler(historyService),
		JwtAuth:                 jwtauth.New("HS256", []byte(cfg.Jwt.Secret), nil),
		PublicRequestsPerMinute: 60,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("Gate service listening", "addr", addr, "persistence", cfg.Persistence)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runMigrations(cfg AppConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.Database.ToDatabaseURL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	slog.Info("Database migrations applied")
	return nil
}
