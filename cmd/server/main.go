// Command server runs the classboard API: registration, login, OAuth
// sign-in, and the classroom routes.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/classboard/auth"
	"github.com/skillsenselab/classboard/auth/jwt"
	"github.com/skillsenselab/classboard/auth/oauth"
	"github.com/skillsenselab/classboard/auth/password"
	"github.com/skillsenselab/classboard/config"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/server"
	"github.com/skillsenselab/classboard/store"
)

const serviceName = "classboard"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No configured logger yet; the global default is enough here.
		logger.GetGlobalLogger().Fatal("Configuration error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.New(&cfg.Logging, serviceName)
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("Fatal error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		return err
	}

	tokens, err := jwt.NewService(jwt.Config{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		return err
	}

	// A slow identity provider must not hold callback requests forever.
	providerClient := &http.Client{Timeout: 10 * time.Second}
	google, err := oauth.NewGoogleProvider(cfg.OAuth.Google, oauth.WithHTTPClient(providerClient))
	if err != nil {
		return err
	}
	github, err := oauth.NewGitHubProvider(cfg.OAuth.GitHub, oauth.WithHTTPClient(providerClient))
	if err != nil {
		return err
	}

	hasher := password.NewBcryptHasher(password.WithCost(cfg.Auth.BcryptCost))
	authSvc := auth.NewService(st, hasher, tokens, log,
		auth.WithProvider(google),
		auth.WithProvider(github),
		auth.WithDefaultRole(cfg.Auth.DefaultRole),
	)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	server.RegisterRoutes(srv.GinEngine(), cfg.Server.AuthRateLimit, tokens,
		server.NewAuthHandler(authSvc, cfg.Frontend.URL, log),
		server.NewClassroomHandler(st, log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")
	return srv.Stop(context.Background())
}
