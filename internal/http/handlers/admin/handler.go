package admin

import "github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：该处理器仅用于商城镜像与采购管理 API。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
