package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"liquorstock/pkg/auth"
	"liquorstock/pkg/config"
	"liquorstock/pkg/liquor"
	"liquorstock/pkg/sheets"
	"liquorstock/pkg/view"
	"liquorstock/pkg/web"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()

	sheetClient, err := sheets.NewClient(context.Background(), cfg.CredentialsPath, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to initialise sheets client: %v", err)
	}

	db, err := auth.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open user database: %v", err)
	}

	views, err := view.New()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	sessions := auth.NewSessionManager(cfg.SessionSecret)
	authHandler := auth.NewHandler(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, db, sessions)
	liquorHandler := liquor.NewHandler(sheetClient, cfg.SheetName, cfg.SheetGID, sessions, views)

	router := web.GetRouter(web.Deps{
		Liquor:   liquorHandler,
		Auth:     authHandler,
		Sessions: sessions,
		Views:    views,
	})
	go startServer(cfg.ListenAddr, router)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	// Just exit on signal and let the supervisor restart from scratch.
	// There's less to get wrong doing it this way.
	<-signalChan
	log.Info("Signalled, shutting down")
}

func startServer(addr string, router http.Handler) {
	server := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
	}
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("ListenAndServeError", err)
	}
}
