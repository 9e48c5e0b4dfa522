package main

import (
	"log"

	v1 "govdns/api/v1"
	"govdns/internal/auth"
	"govdns/internal/cache"
	"govdns/internal/config"
	"govdns/internal/db"
	"govdns/internal/dnshost"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("✓ Configuration loaded")

	logger := logrus.WithField("app", "govdns")

	// 2. Initialize PostgreSQL
	if err := db.InitPostgres(cfg.Postgres.DSN); err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.Get()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer cache.Close()

	// 4. Initialize JWT
	auth.InitJWT(cfg.JWT.Secret)

	// 5. Wire the DNS host service and record sync worker
	client := dnshost.NewClient(cfg.Vendor, logger)
	service := dnshost.NewService(db.Get(), client, cache.Client, logger)

	worker := dnshost.NewWorker(db.Get(), service, cfg.SyncWorker, logger)
	worker.Start()
	defer worker.Stop()

	// 6. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	v1.SetupRouter(r, db.Get(), cfg, service)

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
