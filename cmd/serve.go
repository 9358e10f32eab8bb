package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/server"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat and job description endpoints over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting the recruiter-assistant", zap.String("listen", config.Listen))

	deps, err := wire(ctx, config, logger)
	var configErr error
	if err != nil {
		if !errors.Is(err, errMisconfigured) {
			logger.Fatal("wiring dependencies", zap.Error(err))
		}
		// Keep serving so callers get a clear 500 instead of a refused connection.
		configErr = err
		logger.Error("service is misconfigured, requests will fail until it is fixed", zap.Error(err))
	}

	handlerDeps := server.Deps{
		ConfigErr:    configErr,
		AllowOrigins: config.AllowOrigins,
		Logger:       logger.Named("http"),
	}
	if deps != nil {
		handlerDeps.Assistant = deps.assistant
		handlerDeps.Store = deps.store
	}

	srv := &http.Server{
		Addr:              config.Listen,
		Handler:           server.New(handlerDeps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down", zap.String("reason", "signal received"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serving http", zap.Error(err))
	}

	deps.Close()
	logger.Info("stopped")
}
