package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/openings"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/uci"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		AppName: "chessrules",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(cfg.Clock)
	gameService := service.NewGameService(gameManager)

	var searcher service.Searcher
	if cfg.EnginePath != "" {
		startCtx, cancel := context.WithTimeout(ctx, cfg.EngineTimeout)
		engine, err := uci.Start(startCtx, uci.Config{Path: cfg.EnginePath})
		cancel()
		if err != nil {
			log.Warnf("engine unavailable, analysis disabled: %v", err)
		} else {
			defer engine.Close()
			searcher = engine
		}
	}
	book := openings.NewClient(cfg.OpeningsURL, cfg.OpeningsTimeout)
	analysisService := service.NewAnalysisService(gameManager, searcher, book, service.AnalysisConfig{
		Depth:   cfg.EngineDepth,
		MultiPV: cfg.EngineMultiPV,
		Timeout: cfg.EngineTimeout,
	})

	// Initialize controllers
	gameController := controller.NewGameController(gameService, analysisService)
	wsController := controller.NewWebSocketController(gameService)

	controller.RegisterRoutes(app, gameController, wsController, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.Origins(),
	})

	go gameManager.RunMatchmaking(ctx, cfg.MatchmakingInterval)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("listen on %s: %v", cfg.Addr, err)
	}
}
