package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册全部路由，bootstrap 和测试共用
func RegisterRoutes(api *gin.RouterGroup, kH *KnowledgeHandler, imgH *ImageHandler) {
	k := api.Group("/knowledge")
	{
		k.GET("", kH.List)
		k.POST("", kH.Create)
		k.GET("/:id", kH.Get)
		k.PUT("/:id", kH.Update)
		k.PATCH("/:id", kH.PartialUpdate)
		k.DELETE("/:id", kH.Delete)
		k.POST("/:id/restore", kH.Restore)

		// 图片子资源
		k.POST("/:id/upload-image", imgH.Upload)
		k.DELETE("/:id/images/:image_id", imgH.Delete)
	}

	// 图片二进制下载
	api.GET("/media/*object", imgH.GetMedia)
}
