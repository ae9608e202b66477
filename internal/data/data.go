package data

import (
	"context"
	"fmt"
	"log"
	"strings"

	"knowledge-base/internal/conf"
	"knowledge-base/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Data 结构体持有所有数据库句柄
type Data struct {
	DB    *gorm.DB
	Minio *minio.Client
}

func NewData(cfg *conf.Config) (*Data, func(), error) {
	// 1. 连接数据库 (postgres 为主，sqlite 用于本地/单机部署)
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %v", err)
	}

	// 自动迁移表结构
	if err := db.AutoMigrate(
		&model.Knowledge{},      // 知识条目
		&model.KnowledgeImage{}, // 条目图片
	); err != nil {
		return nil, nil, fmt.Errorf("schema migration failed: %v", err)
	}
	log.Println("✅ 数据库表结构迁移完成")

	// 2. 初始化 MinIO
	minioClient, err := minio.New(cfg.Data.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Data.MinioAccessKey, cfg.Data.MinioSecretKey, ""),
		Secure: cfg.Data.MinioUseSSL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("minio init failed: %v", err)
	}

	// 自动创建 Bucket
	bucketName := cfg.Data.MinioBucket
	exists, err := minioClient.BucketExists(context.Background(), bucketName)
	if err != nil {
		return nil, nil, fmt.Errorf("minio bucket check failed: %v", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, nil, fmt.Errorf("minio bucket create failed: %v", err)
		}
		log.Printf("🎉 MinIO Bucket '%s' 创建成功", bucketName)
	} else {
		log.Printf("✅ MinIO 连接成功 (Bucket '%s' 已存在)", bucketName)
	}

	d := &Data{
		DB:    db,
		Minio: minioClient,
	}

	// 构造清理函数
	cleanup := func() {
		log.Println("正在关闭数据层资源...")
		if sqlDB, err := d.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return d, cleanup, nil
}

// openDB 按配置选择驱动
func openDB(cfg *conf.Config) (*gorm.DB, error) {
	dsn := cfg.Data.DatabaseSource
	switch strings.ToLower(strings.TrimSpace(cfg.Data.DatabaseDriver)) {
	case "", "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		// sqlite 单文件库不适合并发写，收紧连接池
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Data.DatabaseDriver)
	}
}
