package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Clubhouse_Hub/internal/config"
	"Clubhouse_Hub/internal/handler"
	"Clubhouse_Hub/internal/pkg"
	"Clubhouse_Hub/internal/repository"
	"Clubhouse_Hub/internal/repository/mock"
	"Clubhouse_Hub/internal/repository/mysql"
	redisrepo "Clubhouse_Hub/internal/repository/redis"
	"Clubhouse_Hub/internal/router"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			slog.Error("invalid configuration", "error", err)
		}
		os.Exit(1)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	mode := cfg.StoreMode()
	slog.Info("starting clubhouse hub", "mode", mode, "port", cfg.Port)

	// 存储后端只在启动时选择一次
	store, err := repository.NewFacade(mode, repository.Backends{
		Mock: func() (repository.Store, error) {
			return mock.New(mock.DefaultSeed(time.Now())), nil
		},
		Relational: func() (repository.Store, error) {
			db, err := mysql.InitDB(cfg.DatabaseDSN)
			if err != nil {
				return nil, err
			}
			if cfg.AutoMigrate {
				if err := mysql.AutoMigrate(db); err != nil {
					return nil, fmt.Errorf("auto migrate: %w", err)
				}
			}
			return mysql.NewStore(db), nil
		},
	})
	if err != nil {
		return err
	}

	var authStore repository.AuthStore
	if mode == repository.ModeMock {
		authStore = mock.NewAuthStore()
	} else {
		rdb, err := redisrepo.Init(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		authStore = redisrepo.NewAuthStore(rdb)
	}

	var mailer pkg.Mailer = pkg.LogMailer{}
	if cfg.SMTPEnabled() {
		mailer = pkg.NewSMTPMailer(pkg.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	var events pkg.EventPublisher = pkg.NopPublisher{}
	if cfg.KafkaEnabled() {
		events = pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
	}
	defer events.Close()

	tokens := pkg.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, pkg.DefaultAccessTTL, pkg.DefaultRefreshTTL)
	shopify := pkg.NewShopifyClient(pkg.ShopifyConfig{
		StoreDomain: cfg.ShopifyStoreDomain,
		AccessToken: cfg.ShopifyAccessToken,
	})

	identitySvc := service.NewIdentityService(authStore, authStore, authStore, store, mailer, tokens, service.IdentityConfig{
		PublicURL: cfg.PublicURL,
		LoginTTL:  cfg.LoginLinkTTL,
	})
	sessionSvc := service.NewSessionService(service.NewMembershipService(shopify), identitySvc)
	provisionSvc := service.NewProvisionService(store, events, service.ProvisionConfig{})
	profileSvc := service.NewProfileService(store)

	authHandler := handler.NewAuthHandler(sessionSvc, identitySvc, provisionSvc, profileSvc, handler.CookieConfig{
		Secure:     cfg.CookieSecure,
		AccessTTL:  tokens.AccessTTL,
		RefreshTTL: tokens.RefreshTTL,
	})
	r := router.InitRouter(router.Deps{
		Auth:          authHandler,
		Community:     handler.NewCommunityHandler(service.NewCommunityService(store)),
		Post:          handler.NewPostHandler(service.NewPostService(store)),
		Conversation:  handler.NewConversationHandler(service.NewMessageService(store, events)),
		Profile:       handler.NewProfileHandler(profileSvc, identitySvc, authHandler),
		Authenticator: identitySvc,
		DemoMode:      mode == repository.ModeMock,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
