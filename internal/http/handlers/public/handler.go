package public

import "github.com/marketplace-next/internal/provider"

// Handler 买家侧接口处理器入口
// 说明：该处理器仅用于下单、购物车等买家 API。
type Handler struct {
	*provider.Container
}

// New 创建买家侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
