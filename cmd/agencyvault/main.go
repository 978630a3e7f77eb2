package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/agencyvault/agencyvault/internal/config"
	"github.com/agencyvault/agencyvault/internal/infra/database"
	"github.com/agencyvault/agencyvault/internal/infra/gateway"
	"github.com/agencyvault/agencyvault/internal/infra/repository"
	"github.com/agencyvault/agencyvault/internal/present/rest"
	"github.com/agencyvault/agencyvault/internal/present/rest/middleware"
	"github.com/agencyvault/agencyvault/internal/service"
	"github.com/agencyvault/agencyvault/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}
	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	blobs, err := gateway.NewS3BlobStore(ctx, gateway.S3Config{
		Region:    conf.Blob.Region,
		Bucket:    conf.Blob.Bucket,
		Endpoint:  conf.Blob.Endpoint,
		AccessKey: conf.Blob.AccessKeyID,
		SecretKey: conf.Blob.SecretAccessKey,
	})
	if err != nil {
		panic("failed to initialize blob store")
	}
	mailer := gateway.NewSendGridMailer(conf.Mail.SendGridAPIKey, conf.Mail.FromAddress, conf.Mail.FromName)

	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	invRepo := repository.NewInvitationRepository(db)
	renewalRepo := repository.NewRenewalRepository(db)
	eventRepo := repository.NewEventRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	notifier := service.NewNotifyService(notifRepo, rdb, mailer)
	auth := service.NewAuthService([]byte(conf.Auth.JWTSecret), userRepo)

	documentUC := usecase.NewDocumentUsecase(docRepo, userRepo, blobs, notifier)
	invitationUC := usecase.NewInvitationUsecase(invRepo, userRepo, mailer, notifier)
	renewalUC := usecase.NewRenewalUsecase(renewalRepo, userRepo, database.NewMemcacheAdapter(mc))
	eventUC := usecase.NewEventUsecase(eventRepo, userRepo)
	notificationUC := usecase.NewNotificationUsecase(notifRepo)

	handler := rest.NewHandler(documentUC, invitationUC, renewalUC, eventUC, notificationUC)
	authMw := middleware.NewAuthMiddleware(auth)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	handler.RegisterRoutes(e, authMw)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}
