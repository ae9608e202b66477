package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"

	"knowledge-base/internal/dto"
	"knowledge-base/internal/model"
	"knowledge-base/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ObjectStore 图片二进制存储的抽象，生产环境由 MinIO 实现 (data.MinioStore)
type ObjectStore interface {
	Put(ctx context.Context, objectName, contentType string, r io.Reader, size int64) error
	Get(ctx context.Context, objectName string) (io.ReadCloser, int64, error)
	Remove(ctx context.Context, objectName string) error
}

type ImageService struct {
	repo         *repository.KnowledgeRepo
	store        ObjectStore
	mediaBaseURL string
}

func NewImageService(repo *repository.KnowledgeRepo, store ObjectStore, mediaBaseURL string) *ImageService {
	return &ImageService{repo: repo, store: store, mediaBaseURL: mediaBaseURL}
}

// Upload 给条目挂图片
// 父条目走公开读路径解析：不存在或已软删除都报 NotFound
// 父条目先解析，payload 校验在后：条目不存在时 404 优先于 400
func (s *ImageService) Upload(ctx context.Context, knowledgeID uint, fileHeader *multipart.FileHeader) (*dto.KnowledgeImageResp, error) {
	k, err := s.repo.GetActive(ctx, knowledgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// 没带文件和带了个空文件都算缺失
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, &ValidationError{Message: "Image file is required."}
	}

	// 打开文件流
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 生成存储路径: knowledge_images/{uuid}{ext}
	ext := filepath.Ext(fileHeader.Filename)
	objectName := fmt.Sprintf("knowledge_images/%s%s", uuid.New().String(), ext)

	// 先传对象再落库，上传失败不会留下悬空记录
	if err := s.store.Put(ctx, objectName, fileHeader.Header.Get("Content-Type"), src, fileHeader.Size); err != nil {
		return nil, fmt.Errorf("object upload failed: %v", err)
	}

	img := &model.KnowledgeImage{
		KnowledgeID: k.ID,
		ObjectKey:   objectName,
	}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, err
	}

	resp := toImageResp(img, s.mediaBaseURL)
	return &resp, nil
}

// Delete 摘掉图片并清理存储的二进制
// 图片按 {knowledge_id, image_id} 成对查找，挂在别的条目下的 ID 一律 NotFound
func (s *ImageService) Delete(ctx context.Context, knowledgeID, imageID uint) error {
	if _, err := s.repo.GetActive(ctx, knowledgeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	img, err := s.repo.GetImage(ctx, knowledgeID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.repo.DeleteImage(ctx, img.ID); err != nil {
		return err
	}
	// 对象删除失败不回滚，DB 记录为准，留日志待人工清理
	if err := s.store.Remove(ctx, img.ObjectKey); err != nil {
		log.Printf("⚠️ MinIO 对象删除失败 (%s): %v", img.ObjectKey, err)
	}
	return nil
}

// GetObject 按对象路径取二进制，/media 透传接口用
func (s *ImageService) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, int64, error) {
	return s.store.Get(ctx, objectKey)
}
