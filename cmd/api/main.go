package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"semicloud-gen-bot/internal/command"
	"semicloud-gen-bot/internal/config"
	"semicloud-gen-bot/internal/handler"
	"semicloud-gen-bot/internal/middleware"
	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/internal/platform"
	"semicloud-gen-bot/internal/router"
	"semicloud-gen-bot/internal/service"
	"semicloud-gen-bot/internal/store"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Semicloud Gen bot...")

	// Load configuration (BOT_TOKEN is required)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize inventory store based on config
	var inventory store.InventoryStore
	var pruner service.EmptyPruner
	switch cfg.Store.Type {
	case "sqlite":
		sqliteStore, err := store.NewSQLiteInventoryStore(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite inventory: %v", err)
		}
		inventory = sqliteStore
		log.Println("SQLite inventory store initialized")
	default: // file
		fileStore, err := store.NewFileInventoryStore(cfg.Store.StockDir)
		if err != nil {
			log.Fatalf("Failed to initialize file inventory: %v", err)
		}
		inventory = fileStore
		pruner = fileStore
		log.Println("File inventory store initialized")
	}
	defer inventory.Close()

	// Vouch counters
	vouches, err := store.NewFileVouchStore(cfg.Store.VouchPath)
	if err != nil {
		log.Fatalf("Failed to initialize vouch store: %v", err)
	}

	// Generation audit trail: flat file always, MySQL mirror when reachable
	fileLog, err := store.NewFileGenLog(cfg.Store.GenLogPath)
	if err != nil {
		log.Fatalf("Failed to initialize generation log: %v", err)
	}
	genLog := store.GenLog(fileLog)

	// Initialize MySQL connection (optional: audit mirror + operator keys)
	var mysqlDB *sql.DB
	var mysqlGenLog *store.MySQLGenLog
	var operators *store.MySQLOperatorStore

	mysqlDB, err = sql.Open("mysql", cfg.Database.DSN())
	if err != nil {
		log.Printf("Warning: MySQL connection failed: %v", err)
	} else {
		mysqlDB.SetMaxOpenConns(10)
		mysqlDB.SetMaxIdleConns(5)
		mysqlDB.SetConnMaxLifetime(5 * time.Minute)

		if err := mysqlDB.Ping(); err != nil {
			log.Printf("Warning: MySQL ping failed: %v", err)
			mysqlDB.Close()
			mysqlDB = nil
		} else {
			mysqlGenLog, err = store.NewMySQLGenLog(mysqlDB)
			if err != nil {
				log.Printf("Warning: MySQL audit mirror failed: %v", err)
			} else {
				genLog = store.NewMultiGenLog(fileLog, mysqlGenLog)
			}
			operators = store.NewMySQLOperatorStore(mysqlDB)
			log.Println("MySQL initialized")
		}
	}
	if mysqlDB != nil {
		defer mysqlDB.Close()
	}

	// Initialize Redis client (optional: operator session tokens)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		redisClient = nil
	} else {
		log.Println("Redis client initialized")
	}
	cancel()

	var tokenService *service.TokenService
	if redisClient != nil {
		tokenService = service.NewTokenService(redisClient)
	}

	// Outbound platform client + generation orchestration
	messenger := platform.NewClient(cfg.Bot.PlatformURL, cfg.Bot.Token)
	generator := service.NewGenerator(inventory, genLog, messenger, cfg.Bot.Watermark)

	// Command dispatcher. Privilege comes from the author's role names, as
	// reported by the platform in the webhook payload.
	adminRole := cfg.Bot.AdminRole
	dispatcher := command.New(command.Config{
		Inventory: inventory,
		Vouches:   vouches,
		Generator: generator,
		Messenger: messenger,
		IsPrivileged: func(msg model.ChatMessage) bool {
			return slices.Contains(msg.Roles, adminRole)
		},
		Prefix:       cfg.Bot.Prefix,
		Watermark:    cfg.Bot.Watermark,
		VouchChannel: cfg.Bot.VouchChannel,
		BotUserID:    cfg.Bot.UserID,
	})

	// Initialize handlers
	healthHandler := handler.New()
	stockHandler := handler.NewStockHandler(inventory, generator)
	vouchHandler := handler.NewVouchHandler(vouches)
	adminHandler := handler.NewAdminHandler(inventory, mysqlGenLog, cfg.Store.Type)
	webhookHandler := handler.NewWebhookHandler(dispatcher)

	var authHandler *handler.AuthHandler
	if tokenService != nil && operators != nil {
		authHandler = handler.NewAuthHandler(tokenService, operators)
	}

	authCfg := middleware.AuthConfig{
		TokenService: tokenService,
		AdminKey:     cfg.Bot.AdminKey,
		BotToken:     cfg.Bot.Token,
	}

	// Create router
	r := router.New(router.Config{
		Handler:        healthHandler,
		StockHandler:   stockHandler,
		VouchHandler:   vouchHandler,
		AdminHandler:   adminHandler,
		AuthHandler:    authHandler,
		WebhookHandler: webhookHandler,
		BotAuth:        middleware.NewBotAuth(authCfg),
		OperatorAuth:   middleware.NewOperatorAuth(authCfg),
	})

	// Empty-service reaper (file store only)
	if cfg.Reaper.Enabled && pruner != nil {
		reaper := service.NewReaper(pruner, service.ReaperConfig{
			Interval:  cfg.Reaper.Interval,
			Threshold: cfg.Reaper.Threshold,
		})
		reaper.Start()
		defer reaper.Stop()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
