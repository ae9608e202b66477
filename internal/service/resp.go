package service

import (
	"strings"

	"knowledge-base/internal/dto"
	"knowledge-base/internal/model"
)

// imageURL 拼接对外可访问的图片地址
func imageURL(baseURL, objectKey string) string {
	return strings.TrimRight(baseURL, "/") + "/" + objectKey
}

func toImageResp(img *model.KnowledgeImage, baseURL string) dto.KnowledgeImageResp {
	return dto.KnowledgeImageResp{
		ID:        img.ID,
		ImageURL:  imageURL(baseURL, img.ObjectKey),
		CreatedAt: img.CreatedAt,
	}
}

func toKnowledgeResp(k *model.Knowledge, baseURL string) *dto.KnowledgeResp {
	// quiz / images 保证序列化成 []，而不是 null
	quiz := make([]string, 0, len(k.Quiz))
	quiz = append(quiz, k.Quiz...)

	images := make([]dto.KnowledgeImageResp, 0, len(k.Images))
	for i := range k.Images {
		images = append(images, toImageResp(&k.Images[i], baseURL))
	}

	return &dto.KnowledgeResp{
		ID:        k.ID,
		OwnerID:   k.OwnerID,
		Text:      k.Text,
		Quiz:      quiz,
		Images:    images,
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}
