package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/userhub/modules/user"
	"github.com/dmitrymomot/userhub/pkg/config"
	"github.com/dmitrymomot/userhub/pkg/file"
	"github.com/dmitrymomot/userhub/pkg/httpserver"
	"github.com/dmitrymomot/userhub/pkg/jwt"
	"github.com/dmitrymomot/userhub/pkg/logger"
	"github.com/dmitrymomot/userhub/pkg/mongo"
)

type appConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"userhub"`

	Logger logger.Config
	HTTP   httpserver.Config
	Mongo  mongo.Config
	JWT    jwt.Config
	S3     file.S3Config
	User   user.Config

	// Local filesystem fallback used when no S3 bucket is configured.
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/uploads"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, cfg.ServiceName)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	client, err := mongo.New(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", logger.Error(err))
		}
	}()

	repo, err := user.NewMongoRepository(ctx, client.Database(cfg.User.Database))
	if err != nil {
		return err
	}

	tokens, err := jwt.NewFromConfig(cfg.JWT)
	if err != nil {
		return err
	}

	storage, err := avatarStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	svc := user.NewService(repo, tokens,
		user.WithLogger(log),
		user.WithPasswordHasher(user.NewPasswordHasher(cfg.User.BcryptCost)),
		user.WithAvatarStorage(storage, cfg.User.AvatarDir, cfg.User.AvatarMaxSize),
	)
	handler := user.NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log, mongo.Healthcheck(client)))
	r.Mount("/user", handler.Handle())

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// avatarStorage picks the upload backend: S3 when a bucket is configured,
// the local filesystem otherwise.
func avatarStorage(ctx context.Context, cfg appConfig, log *slog.Logger) (file.Storage, error) {
	if cfg.S3.Bucket != "" {
		log.Info("avatar uploads go to s3", slog.String("bucket", cfg.S3.Bucket))
		return file.NewS3Storage(ctx, cfg.S3)
	}
	log.Info("avatar uploads go to local storage", slog.String("dir", cfg.UploadDir))
	return file.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
