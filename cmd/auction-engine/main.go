package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"auction-engine/internal/api/handlers"
	"auction-engine/internal/config"
	"auction-engine/internal/domain"
	"auction-engine/internal/infrastructure/mysql"
	"auction-engine/internal/infrastructure/redis"
	ws "auction-engine/internal/infrastructure/websocket"
	"auction-engine/internal/services"
	"auction-engine/pkg/logger"
)

func main() {
	log := logger.New()
	log.Info("Starting auction engine")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	log.Info("Config loaded", "config", cfg.GetConfigString())

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}(db)

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping MySQL", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	// Initialize repositories
	lotRepo := mysql.NewMySQLLotRepository(db)
	teamRepo := mysql.NewMySQLTeamRepository(db)
	bidJournal := mysql.NewMySQLBidJournal(db)
	schedulerRepo := mysql.NewMySQLSchedulerRepository(db)

	// Increment rules from redis (seeded with defaults on first run)
	ruleStore := redis.NewRedisRuleStore(rdb)
	if err := ruleStore.LoadRules(ctx); err != nil {
		log.Error("Failed to load increment rules", "error", err)
		os.Exit(1)
	}

	settings := domain.AuctionSettings{
		BidWindow:      cfg.Auction.BidWindow(),
		MinIncrement:   cfg.Auction.MinIncrement,
		StartingBudget: cfg.Auction.StartingBudget,
		MaxTeams:       cfg.Auction.MaxTeams,
	}

	budgets := services.NewBudgetRegistry()
	bus := services.NewEventBus(log)
	engine := services.NewEngine(settings, budgets, bus, ruleStore, log)

	// Seed the lot queue and team roster from the catalog
	lots, err := lotRepo.ListLots(ctx)
	if err != nil {
		log.Error("Failed to load lot catalog", "error", err)
		os.Exit(1)
	}
	for _, lot := range lots {
		if _, err := engine.AddLot(lot); err != nil {
			log.Error("Failed to queue lot", "lot_id", lot.ID, "error", err)
			os.Exit(1)
		}
	}

	teams, err := teamRepo.ListTeams(ctx)
	if err != nil {
		log.Error("Failed to load teams", "error", err)
		os.Exit(1)
	}
	for _, team := range teams {
		if err := budgets.Register(team); err != nil {
			log.Error("Failed to register team", "team_id", team.ID, "error", err)
			os.Exit(1)
		}
	}
	log.Info("Catalog loaded", "lots", len(lots), "teams", len(teams))

	// Scheduler for deferred auction starts
	scheduler := services.NewCronAuctionScheduler(schedulerRepo, engine, log)

	// Observer fan-out
	connManager := ws.NewConnectionManager(log)
	observerHandler := ws.NewObserverHandler(engine, connManager, log)

	// One relay drains the bus into the journal, the redis mirror and the
	// websocket broadcast, outside the engine's critical section.
	relayCtx, relayCancel := context.WithCancel(context.Background())
	defer relayCancel()
	relay := services.NewEventRelay(
		bus.Subscribe(),
		log,
		services.NewJournalSink(bidJournal),
		redis.NewRedisEventMirror(rdb),
		ws.NewBroadcastSink(connManager),
	)
	go func() {
		if err := relay.Run(relayCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event relay stopped", "error", err)
		}
	}()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Initialize handlers
	auctionHandler := handlers.NewAuctionHandler(engine, scheduler, log)
	lotHandler := handlers.NewLotHandler(engine, lotRepo, log)
	teamHandler := handlers.NewTeamHandler(budgets, teamRepo, settings, log)
	bidHandler := handlers.NewBidHandler(engine, log)

	// API routes
	api := e.Group("/api/v1")
	api.POST("/auction/start", auctionHandler.Start)
	api.POST("/auction/pause", auctionHandler.Pause)
	api.POST("/auction/resume", auctionHandler.Resume)
	api.POST("/auction/skip", auctionHandler.Skip)
	api.POST("/auction/reset", auctionHandler.Reset)
	api.POST("/auction/extend", auctionHandler.Extend)
	api.POST("/auction/schedule", auctionHandler.Schedule)
	api.GET("/auction/snapshot", auctionHandler.Snapshot)
	api.GET("/auction/history", auctionHandler.History)
	api.GET("/lots", lotHandler.List)
	api.POST("/lots", lotHandler.Create)
	api.PUT("/lots/:id", lotHandler.Update)
	api.DELETE("/lots/:id", lotHandler.Delete)
	api.GET("/teams", teamHandler.List)
	api.POST("/teams", teamHandler.Register)
	api.GET("/teams/:id", teamHandler.Get)
	api.POST("/bids", bidHandler.Submit)
	api.GET("/lots/:lotId/bids", bidHandler.History)

	e.GET("/ws", observerHandler.HandleConnection)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "auction-engine",
			"timestamp": time.Now().Format(time.RFC3339),
			"auction":   engine.Status().String(),
			"observers": connManager.Count(),
		})
	})

	// Start background services
	go func() {
		if err := scheduler.Start(context.Background()); err != nil {
			log.Error("Failed to start scheduler", "error", err)
		}
	}()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting auction engine server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction engine...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := scheduler.Stop(); err != nil {
		log.Error("Failed to stop scheduler", "error", err)
	}
	relayCancel()
	connManager.CloseAll()
	bus.Close()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auction engine stopped")
}
