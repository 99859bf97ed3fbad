package main

import (
	"context"
	"fmt"
	"log"

	"github.com/khiandraj/Finance-Tracker/config"
	"github.com/khiandraj/Finance-Tracker/internal/api"
	"github.com/khiandraj/Finance-Tracker/internal/api/handler"
	"github.com/khiandraj/Finance-Tracker/internal/database"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/pubsub"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/ws"
	"github.com/khiandraj/Finance-Tracker/internal/repository"
	"github.com/khiandraj/Finance-Tracker/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 WebSocket Hub，并订阅扣费事件转发给在线用户
	wsHub := ws.NewHub()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.BillingEvent) {
			if !wsHub.IsOnline(event.UserID) {
				return
			}
			if err := wsHub.SendToUser(event.UserID, &ws.Message{
				Type: event.Type,
				Data: event,
			}); err != nil {
				log.Printf("Failed to push billing event to user %d: %v", event.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Billing event subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	txnRepo := repository.NewTransactionRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	balanceService := service.NewBalanceService(balanceRepo)
	transactionService := service.NewTransactionService(txnRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, transactionService, pubsub.NewPublisher(rdb), cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	balanceHandler := handler.NewBalanceHandler(balanceService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		balanceHandler,
		subscriptionHandler,
		transactionHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
