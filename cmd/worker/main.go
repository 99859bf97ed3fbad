package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/khiandraj/Finance-Tracker/config"
	"github.com/khiandraj/Finance-Tracker/internal/database"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/pubsub"
	"github.com/khiandraj/Finance-Tracker/internal/repository"
	"github.com/khiandraj/Finance-Tracker/internal/service"
	"github.com/khiandraj/Finance-Tracker/internal/worker"
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

	// 初始化 Redis（扫描锁 + 扣费事件发布）
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Repository 和 Service
	subRepo := repository.NewSubscriptionRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	transactionService := service.NewTransactionService(txnRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, transactionService, pubsub.NewPublisher(rdb), cfg)

	sweeper := worker.NewSweeper(subscriptionService, rdb, cfg)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	sweeper.Run(ctx)
	log.Println("Worker shutdown complete")
}
