package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/eaglebank/servicekit/appservice"
	"github.com/eaglebank/servicekit/cache"
	"github.com/eaglebank/servicekit/container"
	"github.com/eaglebank/servicekit/events"
	"github.com/eaglebank/servicekit/example/bank/internal/config"
	"github.com/eaglebank/servicekit/example/bank/internal/handler"
	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/example/bank/internal/repository"
	"github.com/eaglebank/servicekit/example/bank/internal/service"
	"github.com/eaglebank/servicekit/middleware"
	"github.com/eaglebank/servicekit/tx"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	mgr := tx.NewManager(db)
	publisher := events.NewPublisher(rdb)
	accountViews := cache.NewJSON[model.AccountView](rdb, "account", 5*time.Minute)

	users := repository.NewUserRepository(mgr)
	accounts := repository.NewAccountRepository(mgr)
	transfers := repository.NewTransferRepository(mgr)
	audits := repository.NewAuditRepository(mgr)

	userSvc := service.NewUserService(users, publisher, []byte(cfg.JWTSecret), cfg.TokenTTL)
	accountSvc := service.NewAccountService(accounts, accountViews, publisher)
	transferSvc := service.NewTransferService(accounts, transfers, accountViews, publisher)
	auditedSvc := service.NewAuditedTransferService(transferSvc, audits)

	// One registration per service: the marker that makes each of them a
	// managed, transactional component.
	registry := container.New()
	userDef, err := appservice.Register(registry, userSvc)
	if err != nil {
		log.Fatalf("Failed to register user service: %v", err)
	}
	accountDef, err := appservice.Register(registry, accountSvc)
	if err != nil {
		log.Fatalf("Failed to register account service: %v", err)
	}
	if _, err := appservice.Register(registry, transferSvc); err != nil {
		log.Fatalf("Failed to register transfer service: %v", err)
	}
	auditedDef, err := appservice.Inherit(registry, "transferService", auditedSvc)
	if err != nil {
		log.Fatalf("Failed to register audited transfer service: %v", err)
	}

	for _, d := range registry.ByRole(container.RoleService) {
		log.Printf("Registered application service %q (%T)", d.Name(), d.Value())
	}

	userHandler := handler.NewUserHandler(userSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	transferHandler := handler.NewTransferHandler(auditedSvc)

	router := gin.Default()
	router.Use(middleware.Logging())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.POST("/v1/users", middleware.Transactional(mgr, userDef), userHandler.CreateUser)
	router.POST("/v1/auth/login", userHandler.Login)

	v1 := router.Group("/v1", middleware.Auth([]byte(cfg.JWTSecret)))
	{
		v1.POST("/accounts", middleware.Transactional(mgr, accountDef), accountHandler.OpenAccount)
		v1.GET("/accounts/:accountNumber", accountHandler.GetAccount)
		v1.POST("/transfers", middleware.Transactional(mgr, auditedDef), transferHandler.CreateTransfer)
		v1.GET("/accounts/:accountNumber/transfers", transferHandler.ListTransfers)
	}

	log.Printf("Bank service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
