package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-reg-assist/internal/config"
	handlerHTTP "github.com/MKhiriev/go-reg-assist/internal/handler/http"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/mailer"
	"github.com/MKhiriev/go-reg-assist/internal/rag"
	"github.com/MKhiriev/go-reg-assist/internal/server"
	"github.com/MKhiriev/go-reg-assist/internal/service"
	"github.com/MKhiriev/go-reg-assist/internal/store"
	"github.com/MKhiriev/go-reg-assist/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("reg-assist-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	db, err := store.NewConnectPostgres(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)

	mail := mailer.NewNopMailer()
	if cfg.Mail.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.Mail, log)
	}

	ragClient := rag.NewClient(cfg.RAG)

	services := service.NewServices(storages, cfg, mail, ragClient, log)
	handler := handlerHTTP.NewHandler(services, cfg.App, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(
		workers.NewTokenSweeper(storages.UserRepository, 0, log),
	)
	background.Run()

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
