package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multiblog/config"
	"multiblog/handlers"
	"multiblog/helper"
	"multiblog/repositories"
	"multiblog/services"
	"multiblog/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Migrate the database before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	config.LoadJWT()

	db, err := config.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := config.Migrate(db); err != nil {
			return err
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = repositories.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer rdb.Close()
	} else {
		log.Println("REDIS_ADDR not set, logout will not revoke tokens")
	}

	images, staticDir, err := newImageStorage(ctx, cfg)
	if err != nil {
		return err
	}

	validator := helper.NewValidator()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	tokenRepo := repositories.NewTokenRepository(rdb)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenRepo, validator)
	postService := services.NewPostService(db, postRepo, tagRepo, images, validator)
	queryService := services.NewQueryService(postRepo)
	tagService := services.NewTagService(tagRepo)

	router := handlers.SetupRouter(gin.Default(), handlers.RouterConfig{
		AuthHandler:  handlers.NewAuthHandler(authService),
		PostHandler:  handlers.NewPostHandler(postService, queryService),
		TagHandler:   handlers.NewTagHandler(tagService),
		TokenRepo:    tokenRepo,
		StaticPrefix: cfg.UploadURLPrefix,
		StaticDir:    staticDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// newImageStorage returns the configured backend and, for local storage,
// the directory to serve uploaded images from.
func newImageStorage(ctx context.Context, cfg *config.Config) (storage.ImageStorage, string, error) {
	switch cfg.StorageDriver {
	case config.StorageMinio:
		s, err := storage.NewMinioStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, cfg.MinioPublicURL)
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	case config.StorageLocal:
		s, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return nil, "", err
		}
		return s, s.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
