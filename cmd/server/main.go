package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"

	"github.com/CesarGorge/mini-wallet-api/configs"
	"github.com/CesarGorge/mini-wallet-api/internal/etherscan"
	"github.com/CesarGorge/mini-wallet-api/internal/handlers"
	"github.com/CesarGorge/mini-wallet-api/internal/logger"
	"github.com/CesarGorge/mini-wallet-api/internal/routes"
	"github.com/CesarGorge/mini-wallet-api/internal/seed"
	"github.com/CesarGorge/mini-wallet-api/internal/store"
	"github.com/CesarGorge/mini-wallet-api/internal/token"
)

const tokenTTL = time.Hour

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()
	cfg := configs.AppConfig

	// The store connects on first use, not here.
	db := store.New(postgres.New(postgres.Config{DSN: cfg.DB.DSN}))

	if cfg.Seed.DemoData {
		seed.Run(context.Background(), db)
	}

	tokens := token.NewService([]byte(cfg.JWT.SECRET), tokenTTL)
	balance := etherscan.New(cfg.Etherscan.BaseURL, cfg.Etherscan.APIKey, cfg.Etherscan.USDCContract, 30*time.Second)

	router := routes.NewRoutes(handlers.New(db, tokens, balance), tokens)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
