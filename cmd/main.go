package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saeidalz13/battleship-match/api"
	"github.com/saeidalz13/battleship-match/db"
	"github.com/saeidalz13/battleship-match/db/sqlc"
	"github.com/saeidalz13/battleship-match/internal"
	"github.com/saeidalz13/battleship-match/internal/config"
	mb "github.com/saeidalz13/battleship-match/models/battleship"
	mc "github.com/saeidalz13/battleship-match/models/connection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	opts := []api.Option{
		api.WithStage(cfg.Stage, cfg.AllowedOrigins...),
		api.WithMatchDefaults(cfg.DefaultGridSize, cfg.DefaultTotalShips),
	}

	if cfg.DatabaseURL != "" {
		pgdb := db.MustConnectToDb(cfg.DatabaseURL, cfg.MigrationDir)
		defer pgdb.Close()

		opts = append(opts, api.WithDbManager(sqlc.NewDbManager(sqlc.New(pgdb), internal.ServerIpNet())))
	} else {
		log.Println("DATABASE_URL is empty, analytics disabled")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sessionManager := mc.NewBattleshipSessionManager(cfg.SessionGracePeriod, cfg.SessionCleanupInterval)
	go sessionManager.CleanupPeriodically(ctx)

	matchManager := mb.NewBattleshipMatchManager(cfg.Policy())
	rp := api.NewRequestProcessor(sessionManager, matchManager, opts...)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}

	go func() {
		log.Printf("Listening to port %d\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stop()

	// Hijacked websocket connections are not tracked by Shutdown;
	// they end with the process.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("server forced to shutdown:", err)
	}

	log.Println("server exited")
}
