package provider

import (
	"time"

	"github.com/marketplace-next/internal/broker"
	"github.com/marketplace-next/internal/cache"
	"github.com/marketplace-next/internal/config"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/queue"
	"github.com/marketplace-next/internal/repository"
	"github.com/marketplace-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   broker.Publisher

	// Repositories
	ProductRepo        repository.ProductRepository
	VariantRepo        repository.ProductVariantRepository
	CheckoutRepo       repository.CheckoutRepository
	CartRepo           repository.CartRepository
	OrderRepo          repository.OrderRepository
	PromotionRepo      repository.PromotionRepository
	PromotionUsageRepo repository.PromotionUsageRepository
	RevenueRepo        repository.RevenueRepository
	PaymentBatchRepo   repository.PaymentBatchRepository

	// Services
	PromotionService *service.PromotionService
	InventoryService *service.InventoryService
	RevenueService   *service.RevenueService
	CartService      *service.CartService
	OrderService     *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，未启用时返回空操作客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Publisher:   broker.NewPublisher(&cfg.Kafka),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_publisher_failed", "error", err)
		}
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.CheckoutRepo = repository.NewCheckoutRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.PromotionUsageRepo = repository.NewPromotionUsageRepository(db)
	c.RevenueRepo = repository.NewRevenueRepository(db)
	c.PaymentBatchRepo = repository.NewPaymentBatchRepository(db)
}

func (c *Container) initServices() {
	rate, err := c.Config.Revenue.Rate()
	if err != nil {
		logger.Errorw("provider_commission_rate_invalid", "error", err)
		panic(err)
	}

	c.PromotionService = service.NewPromotionService(c.PromotionRepo, c.PromotionUsageRepo)
	c.InventoryService = service.NewInventoryService(c.ProductRepo, c.VariantRepo)
	c.RevenueService = service.NewRevenueService(c.OrderRepo, c.RevenueRepo, c.PaymentBatchRepo, c.Publisher, service.RevenueOptions{
		CommissionRate:  rate,
		BatchCutoffDays: c.Config.Revenue.BatchCutoffDays,
	})
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.VariantRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.VariantRepo,
		c.CheckoutRepo,
		c.CartRepo,
		c.PromotionService,
		c.InventoryService,
		c.RevenueService,
		c.QueueClient,
		c.Publisher,
		service.OrderOptions{
			PendingExpireMinutes: c.Config.Order.PendingExpireMinutes,
			MaxLinesPerOrder:     c.Config.Order.MaxLinesPerOrder,
			CatalogTTL:           time.Duration(c.Config.Redis.CatalogTTLSeconds) * time.Second,
		},
	)
}
