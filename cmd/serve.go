package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"todo-stream.com/todo-stream/internal/auth"
	"todo-stream.com/todo-stream/internal/broadcast"
	config "todo-stream.com/todo-stream/internal/configs"
	httpapi "todo-stream.com/todo-stream/internal/http"
	repository "todo-stream.com/todo-stream/internal/repositories"
	"todo-stream.com/todo-stream/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the todo HTTP API and the live change broadcast channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		database := config.New(cfg.DatabaseDSN)
		userRepo := repository.NewUserRepository(database)
		taskRepo := repository.NewTaskRepository(database)

		jwtManager := auth.NewJWTManager(
			cfg.JWTSecret,
			cfg.JWTIssuer,
			time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
			time.Duration(cfg.RefreshTokenTTLHours)*time.Hour,
		)

		var broadcaster broadcast.Broadcaster
		if cfg.BroadcastDriver == config.BroadcastDriverRedis {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			broadcaster = broadcast.NewRedisBroadcaster(redisClient, cfg.RedisChannelPrefix)
		} else {
			broadcaster = broadcast.NewHub()
		}

		authService := services.NewAuthService(userRepo, auth.NewPasswordHasher(), jwtManager)
		taskService := services.NewTaskService(taskRepo, broadcaster)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()

		handler := httpapi.NewHandler(authService, taskService, broadcaster)
		httpapi.Register(e, handler, cfg.RateLimit, authService.ValidateToken)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		broadcaster.Close()
		_ = e.Shutdown(shutdownCtx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
