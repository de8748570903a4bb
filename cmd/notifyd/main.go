package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/notifyd/api"
	"github.com/dmitrymomot/notifyd/pkg/config"
	"github.com/dmitrymomot/notifyd/pkg/email"
	"github.com/dmitrymomot/notifyd/pkg/httpserver"
	"github.com/dmitrymomot/notifyd/pkg/logger"
	"github.com/dmitrymomot/notifyd/pkg/mongo"
	"github.com/dmitrymomot/notifyd/pkg/notification"
	"github.com/dmitrymomot/notifyd/pkg/requestid"
)

const serviceName = "notifyd"

type serviceConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`       // Env selects the logger profile.
	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"` // EmailDevDir receives emails when no Postmark token is set.
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		svcCfg   serviceConfig
		httpCfg  httpserver.Config
		mongoCfg mongo.Config
		mailCfg  email.Config
		notifCfg notification.Config
	)
	config.MustLoad(&svcCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&mailCfg)
	config.MustLoad(&notifCfg)

	log := logger.New(
		logger.WithEnvironment(svcCfg.Env, serviceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	client, err := mongo.New(ctx, mongoCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to mongodb", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect from mongodb", logger.Error(err))
		}
	}()

	storage := notification.NewMongoStorage(client.Database(notifCfg.Database), notifCfg)

	var sender email.EmailSender
	if mailCfg.PostmarkServerToken == "" {
		log.WarnContext(ctx, "no postmark token configured, writing emails to disk",
			slog.String("dir", svcCfg.EmailDevDir))
		sender = email.NewDevSender(svcCfg.EmailDevDir)
	} else {
		sender = email.MustNewPostmarkClient(mailCfg)
	}

	dispatcher := notification.NewDispatcher(storage, sender, notification.WithLogger(log))

	handler := api.NewHandler(dispatcher, log)
	health := httpserver.HealthCheckHandler(ctx, log, mongo.Healthcheck(client))
	router := api.Router(handler, health)

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.InfoContext(ctx, "http server started", slog.String("addr", httpCfg.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("http server stopped")
		}),
	)

	if err := srv.Run(ctx, router); err != nil {
		log.ErrorContext(ctx, "http server exited with error", logger.Error(err))
		os.Exit(1)
	}
}
