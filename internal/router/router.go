package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/config"
	adminhandlers "github.com/marketplace-next/internal/http/handlers/admin"
	publichandlers "github.com/marketplace-next/internal/http/handlers/public"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mk"
	}
	commitRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order", redisPrefix),
		WindowSeconds: cfg.Order.CommitRateWindowSeconds,
		MaxRequests:   cfg.Order.CommitRateMax,
	}
	// 预览按优惠码 + IP 限流，防止枚举优惠码
	previewRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:preview", redisPrefix),
		WindowSeconds: cfg.Order.CommitRateWindowSeconds,
		MaxRequests:   cfg.Order.CommitRateMax * 3,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}

	apiV1 := r.Group("/api/v1")
	{
		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey))
		{
			user.POST("/orders/preview", RateLimitMiddleware(cache.Client(), previewRule, KeyByIPAndJSONField("coupon_code")), publicHandler.PreviewOrder)
			user.POST("/orders", RateLimitMiddleware(cache.Client(), commitRule, KeyByUser), publicHandler.CommitOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.POST("/promotions/evaluate", RateLimitMiddleware(cache.Client(), previewRule, KeyByIPAndJSONField("code")), publicHandler.EvaluatePromotion)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:id", publicHandler.DeleteCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
		}

		// 运营接口（需 admin 角色）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey), RequireRole(RoleAdmin))
		{
			admin.POST("/orders", adminHandler.AdminCommitOrder)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
			admin.POST("/orders/:id/revenue", adminHandler.RecognizeOrderRevenue)

			admin.POST("/payment-batches", adminHandler.CreatePaymentBatch)
			admin.GET("/payment-batches/:batch_id", adminHandler.GetPaymentBatch)
			admin.POST("/payment-batches/:batch_id/settle", adminHandler.SettlePaymentBatch)

			admin.POST("/promotions/:kind", adminHandler.CreatePromotion)
			admin.GET("/promotions/:kind/:id/history", adminHandler.GetPromotionUsage)

			admin.GET("/routes", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminRouteCatalog(r))
			})
		}
	}

	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminRouteCatalogItem struct {
	Module string `json:"module"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

func buildAdminRouteCatalog(engine *gin.Engine) []adminRouteCatalogItem {
	if engine == nil {
		return []adminRouteCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminRouteCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		key := method + ":" + item.Path
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, adminRouteCatalogItem{
			Module: deriveAdminRouteModule(item.Path),
			Method: method,
			Path:   item.Path,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Path == items[j].Path {
				return items[i].Method < items[j].Method
			}
			return items[i].Path < items[j].Path
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminRouteModule(path string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(path), "/api/v1/admin/")
	if normalized == "" {
		return "system"
	}
	return strings.Split(normalized, "/")[0]
}
