package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shobhitraaj/skytarget/internal/api"
	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/auth"
	"github.com/shobhitraaj/skytarget/internal/config"
	"github.com/shobhitraaj/skytarget/internal/snapshot"
	"github.com/shobhitraaj/skytarget/internal/store"
	"github.com/shobhitraaj/skytarget/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	telemetry.Init()

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	authn := auth.NewAuthenticator(cfg.AdminAPIKey, cfg.AdminKeyHashes)
	srvAPI := api.NewServer(st, cfg.Env, audience.Platform(cfg.Platform), authn)

	// initial snapshot
	if err := srvAPI.RebuildSnapshot(ctx); err != nil {
		log.Fatalf("load messages: %v", err)
	}
	snap := snapshot.Load()
	log.Printf("snapshot: %d messages, etag=%s", len(snap.Messages), snap.ETag)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srvAPI.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}
	go func() {
		log.Printf("metrics on %s", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics server: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	log.Println("stopped")
}
