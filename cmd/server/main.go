package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "geomap/api/api/http"
	mycache "geomap/api/cache"
	"geomap/api/config"
	"geomap/api/log"
	"geomap/api/service"
	"geomap/api/system"
)

func main() {
	configDir := flag.String("config", "", "directory holding config.yaml")
	flag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatal("load config: ", err)
	}
	log.Init(log.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   true,
		JSON:       cfg.Log.JSON,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := system.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal("init tracing: ", err)
	}
	defer system.ShutdownTracing(shutdownTracing)

	if _, err := system.InitDb(cfg.DB); err != nil {
		log.Fatal("init db: ", err)
	}
	defer system.CloseDb()

	cache, err := mycache.NewStateCache(cfg.Cache)
	if err != nil {
		log.Fatal("init cache: ", err)
	}
	service.InitGameService(cache)

	world, err := service.InitWorld(cfg.Map)
	if err != nil {
		log.Fatal("init world: ", err)
	}
	views := service.InitViews(world, cfg.Map.ViewSessionTTL, cfg.Map.MaxViewSessions)
	go views.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apihttp.NewEngine(cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen: ", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	cancel()

	stopCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(stopCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
}
