package api

import (
	"github.com/gin-gonic/gin"

	"github.com/khiandraj/Finance-Tracker/config"
	"github.com/khiandraj/Finance-Tracker/internal/api/handler"
	"github.com/khiandraj/Finance-Tracker/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	balanceHandler      *handler.BalanceHandler
	subscriptionHandler *handler.SubscriptionHandler
	transactionHandler  *handler.TransactionHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	balanceHandler *handler.BalanceHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	transactionHandler *handler.TransactionHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		balanceHandler:      balanceHandler,
		subscriptionHandler: subscriptionHandler,
		transactionHandler:  transactionHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket（扣费通知推送）
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
			}

			// 余额
			balance := authenticated.Group("/balance")
			{
				balance.GET("", r.balanceHandler.Get)
				balance.POST("/credit", r.balanceHandler.Credit)
				balance.POST("/debit", r.balanceHandler.Debit)
				balance.DELETE("", r.balanceHandler.Delete)
			}

			// 订阅
			subscriptions := authenticated.Group("/subscriptions")
			{
				subscriptions.POST("", r.subscriptionHandler.Create)
				subscriptions.GET("", r.subscriptionHandler.List)
				subscriptions.POST("/process-due", r.subscriptionHandler.ProcessDue)
				subscriptions.GET("/:id", r.subscriptionHandler.Get)
				subscriptions.DELETE("/:id", r.subscriptionHandler.Cancel)
			}

			// 扣费流水
			authenticated.GET("/transactions", r.transactionHandler.List)
		}
	}

	return engine
}
