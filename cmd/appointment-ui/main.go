package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/appointment-ui/internal/config"
	"github.com/ehr/appointment-ui/internal/domain/account"
	"github.com/ehr/appointment-ui/internal/domain/appointment"
	"github.com/ehr/appointment-ui/internal/domain/doctor"
	"github.com/ehr/appointment-ui/internal/domain/patient"
	"github.com/ehr/appointment-ui/internal/platform/apiclient"
	"github.com/ehr/appointment-ui/internal/platform/auth"
	"github.com/ehr/appointment-ui/internal/platform/middleware"
	"github.com/ehr/appointment-ui/internal/platform/session"
	"github.com/ehr/appointment-ui/internal/platform/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "appointment-ui",
		Short:        "Web front-end for the appointment API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect session tokens",
	}

	// token role
	cmd.AddCommand(&cobra.Command{
		Use:   "role <token>",
		Short: "Print the role carried by a token and the screen it lands on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return printRole(cmd, newClaimsReader(cfg, newLogger(cfg)), strings.TrimSpace(args[0]))
		},
	})

	return cmd
}

func printRole(cmd *cobra.Command, claims *auth.ClaimsReader, token string) error {
	role, err := claims.Role(token)
	if err != nil {
		return fmt.Errorf("read role: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "role:        %s\n", role)
	fmt.Fprintf(out, "known:       %t\n", role.Known())
	fmt.Fprintf(out, "destination: %s\n", auth.RouteForRole(role))
	return nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// newClaimsReader picks how token signatures are checked before the role
// claim is trusted.
func newClaimsReader(cfg *config.Config, logger zerolog.Logger) *auth.ClaimsReader {
	switch cfg.TokenMode() {
	case "hmac":
		return auth.NewHMACReader([]byte(cfg.TokenSigningKey))
	case "jwks":
		return auth.NewJWKSReader(auth.NewJWKSCache(cfg.TokenJWKSURL, 0, nil, auth.WithJWKSLogger(logger)))
	default:
		return auth.NewUnverifiedReader()
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.TokenMode() == "unverified" {
		logger.Warn().Msg("token signatures are not verified; set TOKEN_SIGNING_KEY or TOKEN_JWKS_URL")
	}

	e, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("api", cfg.APIBaseURL).Str("token_mode", cfg.TokenMode()).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires the API client, the four domains and the middleware stack.
func newServer(cfg *config.Config, logger zerolog.Logger) (*echo.Echo, error) {
	client, err := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout))
	if err != nil {
		return nil, err
	}

	storeOpts := []session.Option{session.WithTTL(cfg.SessionTTL)}
	if !cfg.CookieSecure {
		storeOpts = append(storeOpts, session.WithInsecureCookies())
	}
	store := session.NewStore(storeOpts...)

	// Domain wiring
	doctorSvc := doctor.NewService(doctor.NewRepo(client))
	patientSvc := patient.NewService(patient.NewRepo(client))
	apptSvc := appointment.NewService(appointment.NewRepo(client), doctorSvc)
	accountSvc := account.NewService(account.NewRepo(client), patientSvc, newClaimsReader(cfg, logger))

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = web.MustRenderer()
	e.Validator = web.NewValidator()
	e.HTTPErrorHandler = web.HTTPErrorHandler

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(cfg.TLSEnabled))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == web.PathHealth
		},
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: http.SameSiteStrictMode,
	}))

	public := e.Group("")
	private := e.Group("", middleware.RequireSession(store))

	loginLimit := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		loginLimit.RequestsPerSecond = cfg.RateLimitRPS
	}
	if cfg.RateLimitBurst > 0 {
		loginLimit.BurstSize = cfg.RateLimitBurst
	}

	account.NewHandler(accountSvc, store).RegisterRoutes(public, middleware.RateLimit(loginLimit))
	doctor.NewHandler(doctorSvc, apptSvc).RegisterRoutes(public, private)
	patient.NewHandler(patientSvc, apptSvc).RegisterRoutes(public, private)
	appointment.NewHandler(apptSvc).RegisterRoutes(private)

	return e, nil
}
