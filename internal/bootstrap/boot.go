package bootstrap

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"knowledge-base/internal/conf"
	"knowledge-base/internal/data"
	"knowledge-base/internal/handler"
	"knowledge-base/internal/middleware"
	"knowledge-base/internal/repository"
	"knowledge-base/internal/service"
)

// Run 启动服务器
func Run() {
	// 1. 加载配置
	cfg := conf.LoadConfig()

	// 2. 初始化数据层 (DB + MinIO)
	d, cleanup, err := data.NewData(cfg)
	if err != nil {
		log.Fatalf("❌ 数据层初始化失败: %v", err)
	}
	defer cleanup()

	// 3. 初始化仓储与服务层
	repo := repository.NewKnowledgeRepo(d.DB)
	store := data.NewMinioStore(d.Minio, cfg.Data.MinioBucket)

	knowledgeSvc := service.NewKnowledgeService(repo, cfg.Media.BaseURL)
	imageSvc := service.NewImageService(repo, store, cfg.Media.BaseURL)

	// 4. 初始化 Handler
	kH := handler.NewKnowledgeHandler(knowledgeSvc)
	imgH := handler.NewImageHandler(imageSvc)

	// 5. 初始化 Gin Server
	r := gin.Default()
	r.Use(middleware.TraceMiddleware())

	// CORS 配置
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-Trace-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 6. 注册路由
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api, kH, imgH)

	log.Printf("🚀 知识库服务已启动，监听端口 :%s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("❌ Server 启动失败: %v", err)
	}
}
