package router

import (
	"context"
	"time"

	"avyyan/internal/config"
	"avyyan/internal/handler"
	"avyyan/internal/infra"
	"avyyan/internal/middleware"
	"avyyan/internal/model"
	"avyyan/internal/repository"
	"avyyan/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
//
// db, rdb, mailCB and dispatcher may be nil (tests); health probes for
// missing backends report "skipped" and notifications stay in-app.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker, dispatcher service.JobDispatcher) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	allotmentRepo := repository.NewAllotmentRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// A nil *redis.Client must stay an untyped nil so the permission cache is skipped.
	var cache redis.Cmdable
	if rdb != nil {
		cache = rdb
	}
	permSvc := service.NewPermissionService(roleRepo, cache, cfg.PermissionCacheTTL())
	authSvc := service.NewAuthService(userRepo, roleRepo, permSvc, cfg)
	roleSvc := service.NewRoleService(roleRepo, userRepo, permSvc)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, dispatcher)
	salesOrderSvc := service.NewSalesOrderService(salesOrderRepo)
	allotmentSvc := service.NewAllotmentService(allotmentRepo, salesOrderRepo, notificationSvc, dispatcher)
	inspectionSvc := service.NewInspectionService(inspectionRepo, allotmentRepo, salesOrderRepo, notificationSvc)
	chatSvc := service.NewChatService(chatRepo, userRepo, notificationSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	rolesH := handler.NewRolesHandler(roleSvc)
	salesOrdersH := handler.NewSalesOrdersHandler(salesOrderSvc)
	allotmentsH := handler.NewAllotmentsHandler(allotmentSvc)
	inspectionsH := handler.NewInspectionsHandler(inspectionSvc)
	notificationsH := handler.NewNotificationsHandler(notificationSvc)
	chatH := handler.NewChatHandler(chatSvc)
	calcH := handler.NewCalcHandler()

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(healthChecks(db, rdb, mailCB)))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	can := func(perm string) gin.HandlerFunc { return middleware.RequirePermission(permSvc, perm) }

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Calculators are pure; any authenticated user may use them.
		calc := v1.Group("/calc")
		{
			calc.POST("/counter", calcH.Counter)
			calc.POST("/rolls", calcH.Rolls)
			calc.POST("/parse", calcH.Parse)
		}

		users := v1.Group("/users", can(model.PermUsersManage))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}

		roles := v1.Group("/roles", can(model.PermRolesManage))
		{
			roles.POST("", rolesH.Create)
			roles.GET("", rolesH.List)
			roles.PUT("/:id", rolesH.Update)
			roles.DELETE("/:id", rolesH.Delete)
		}

		orders := v1.Group("/sales-orders")
		{
			orders.GET("", can(model.PermSalesOrdersRead), salesOrdersH.List)
			orders.GET("/:id", can(model.PermSalesOrdersRead), salesOrdersH.Get)
			orders.GET("/:id/allotments", can(model.PermAllotmentsRead), allotmentsH.ListBySalesOrder)
			orders.POST("", can(model.PermSalesOrdersWrite), salesOrdersH.Create)
			orders.PATCH("/:id", can(model.PermSalesOrdersWrite), salesOrdersH.UpdateHeader)
			orders.POST("/:id/items", can(model.PermSalesOrdersWrite), salesOrdersH.AddItem)
			orders.PATCH("/:id/status", can(model.PermSalesOrdersWrite), salesOrdersH.ChangeStatus)
		}

		allotments := v1.Group("/allotments")
		{
			allotments.POST("", can(model.PermAllotmentsWrite), allotmentsH.Create)
			allotments.GET("/:id", can(model.PermAllotmentsRead), allotmentsH.Get)
			allotments.GET("/:id/sheet", can(model.PermAllotmentsRead), allotmentsH.DownloadSheet)
			allotments.PATCH("/:id/status", can(model.PermAllotmentsWrite), allotmentsH.ChangeStatus)
			allotments.GET("/:id/inspections", can(model.PermInspectionsRead), inspectionsH.ListByAllotment)
			allotments.GET("/:id/inspection-summary", can(model.PermInspectionsRead), inspectionsH.Summary)
		}

		v1.POST("/inspections", can(model.PermInspectionsWrite), inspectionsH.Record)

		notifications := v1.Group("/notifications", can(model.PermNotificationsRead))
		{
			notifications.GET("", notificationsH.List)
			notifications.GET("/unread-count", notificationsH.UnreadCount)
			notifications.PATCH("/:id/read", notificationsH.MarkRead)
			notifications.POST("/read-all", notificationsH.MarkAllRead)
		}

		chat := v1.Group("/chat", can(model.PermChatUse))
		{
			chat.POST("/messages", chatH.Send)
			chat.GET("/conversations", chatH.Conversations)
			chat.GET("/conversations/:peer_id", chatH.Conversation)
			chat.POST("/conversations/:peer_id/read", chatH.MarkRead)
		}
	}

	// Swagger UI only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

func healthChecks(db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) handler.HealthChecks {
	var checks handler.HealthChecks
	if db != nil {
		checks.DB = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if rdb != nil {
		checks.Redis = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if mailCB != nil {
		checks.MailState = func() string { return mailCB.State().String() }
	}
	return checks
}
