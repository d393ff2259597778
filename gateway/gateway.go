package gateway

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	_ "github.com/elijahdunhamm/FreshHotBreadAllDay/gateway/docs"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/metrics"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Gateway struct {
	config         *config.Config
	logger         *zap.Logger
	router         *gin.Engine
	server         *http.Server
	metrics        *metrics.Registry
	orderService   service.OrderService
	contentService service.ContentService
	authService    service.AuthService
	clock          func() time.Time
}

type GatewayProperty struct {
	Config         *config.Config
	Logger         *zap.Logger
	Metrics        *metrics.Registry
	OrderService   service.OrderService
	ContentService service.ContentService
	AuthService    service.AuthService
	Clock          func() time.Time
}

func NewGateway(props GatewayProperty) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	useJSONFieldNames()

	logger := props.Logger.Named("gateway")
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))
	router.Use(metricsMiddleware(props.Metrics))

	clock := props.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Gateway{
		config:         props.Config,
		logger:         logger,
		router:         router,
		metrics:        props.Metrics,
		orderService:   props.OrderService,
		contentService: props.ContentService,
		authService:    props.AuthService,
		clock:          clock,
	}
}

// useJSONFieldNames makes validation errors name fields the way clients
// send them.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
}

func (g *Gateway) SetupRoutes() {
	api := g.router.Group("/api")
	{
		api.GET("/health", g.health)

		auth := api.Group("/auth")
		{
			auth.POST("/login", g.login)
			auth.GET("/verify", g.requireStaff(), g.verify)
			auth.POST("/change-password", g.requireStaff(), g.changePassword)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", g.placeOrder)

			staff := orders.Group("", g.requireStaff())
			staff.GET("", g.listOrders)
			staff.GET("/stats", g.getStats)
			staff.POST("/adjust-revenue", g.adjustRevenue)
			staff.GET("/:id", g.getOrder)
			staff.GET("/:id/audit", g.getOrderAudit)
			staff.PUT("/:id", g.updateOrder)
			staff.DELETE("/:id", g.deleteOrder)
		}

		content := api.Group("/content")
		{
			content.GET("", g.getAllContent)
			content.GET("/:key", g.getContent)
			content.POST("", g.requireStaff(), g.updateContent)
			content.POST("/batch", g.requireStaff(), g.batchUpdateContent)
			content.DELETE("/:key", g.requireStaff(), g.deleteContent)
		}
	}

	g.router.GET("/metrics", gin.WrapH(g.metrics.Handler()))

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	g.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

// Handler is the router wrapped with the configured CORS policy.
func (g *Gateway) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   g.config.CORS.AllowedOrigins,
		AllowedMethods:   g.config.CORS.AllowedMethods,
		AllowedHeaders:   g.config.CORS.AllowedHeaders,
		AllowCredentials: g.config.CORS.AllowCredentials,
		MaxAge:           g.config.CORS.MaxAge,
	}).Handler(g.router)
}

func (g *Gateway) Start() error {
	addr := g.config.Server.Address()
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.logger.Info("Gateway starting", zap.String("address", addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

func (g *Gateway) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Fresh Bread API is running",
		"timestamp": g.clock().UTC().Format(time.RFC3339),
		"features": gin.H{
			"orders":             true,
			"emailNotifications": g.config.Email.Enabled(),
		},
	})
}
