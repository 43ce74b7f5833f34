package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-social-platform/internal/cache"
	"github.com/pribylovaa/go-social-platform/internal/config"
	apihttp "github.com/pribylovaa/go-social-platform/internal/http"
	"github.com/pribylovaa/go-social-platform/internal/service"
	"github.com/pribylovaa/go-social-platform/internal/storage/minio"
	"github.com/pribylovaa/go-social-platform/internal/storage/mongo"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// localIdempotencySize — ёмкость LRU ключей идемпотентности без Redis.
const localIdempotencySize = 100_000

// idempotencyStore — ключи идемпотентности с проверкой готовности и закрытием.
type idempotencyStore interface {
	service.Idempotency
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting social-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	st, err := mongo.New(rootCtx, cfg)
	if err != nil {
		log.Error("storage_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if cerr := st.Close(closeCtx); cerr != nil {
			log.Warn("storage_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	log.Info("storage_initialized")

	idem, err := setupIdempotency(rootCtx, cfg, log)
	if err != nil {
		log.Error("idempotency_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if cerr := idem.Close(); cerr != nil {
			log.Warn("idempotency_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	opts := []service.Option{service.WithIdempotency(idem)}

	if cfg.S3.Enabled() {
		media, err := minio.New(rootCtx, cfg)
		if err != nil {
			log.Error("media_init_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}

		opts = append(opts, service.WithMedia(media))
		log.Info("media_initialized", slog.String("bucket", cfg.S3.Bucket))
	} else {
		log.Info("media_disabled")
	}

	svc := service.New(st, *cfg, opts...)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := svc.StartUnbanSweeper(rootCtx); err != nil {
			log.Error("sweeper_failed", slog.String("err", err.Error()))
		}
	}()

	apiHandler := apihttp.NewRouter(svc, apihttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
		Auth:    cfg.Auth,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}

		if err := idem.Ping(ctx); err != nil {
			http.Error(w, "idempotency store unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
		rootCancel()
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	wg.Wait()
	log.Info("service_stopped")
}

// setupIdempotency выбирает Redis, если он настроен, иначе LRU в процессе.
func setupIdempotency(ctx context.Context, cfg *config.Config, log *slog.Logger) (idempotencyStore, error) {
	if cfg.Redis.URL == "" {
		log.Info("idempotency_local", slog.Duration("ttl", cfg.Redis.IdempotencyTTL))
		return cache.NewLocalIdempotency(localIdempotencySize, cfg.Redis.IdempotencyTTL)
	}

	c, err := cache.NewRedisIdempotency(ctx, cfg.Redis.URL, cfg.Redis.Prefix, cfg.Redis.IdempotencyTTL)
	if err != nil {
		return nil, err
	}

	log.Info("idempotency_redis", slog.String("prefix", cfg.Redis.Prefix))
	return c, nil
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
