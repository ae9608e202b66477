package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"knowledge-base/internal/dto"
	"knowledge-base/internal/model"
	"knowledge-base/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMediaBase = "http://localhost:8080/api/v1/media"

func newTestRepo(t *testing.T) *repository.KnowledgeRepo {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Knowledge{}, &model.KnowledgeImage{}))
	return repository.NewKnowledgeRepo(db)
}

func newTestService(t *testing.T) *KnowledgeService {
	t.Helper()
	return NewKnowledgeService(newTestRepo(t), testMediaBase)
}

func strPtr(s string) *string      { return &s }
func quizPtr(q []string) *[]string { return &q }

func TestCreateDefaultsQuizToEmptyList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateKnowledgeReq{OwnerID: "u1", Text: "t1"})
	require.NoError(t, err)
	require.Equal(t, "u1", resp.OwnerID)
	require.Equal(t, []string{}, resp.Quiz)
	require.Equal(t, []dto.KnowledgeImageResp{}, resp.Images)

	got, err := svc.Get(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, []string{}, got.Quiz)
}

func TestCreateRequiredFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateKnowledgeReq{Text: "t1"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "owner_id", ve.Field)

	_, err = svc.Create(ctx, dto.CreateKnowledgeReq{OwnerID: "u1"})
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "text", ve.Field)

	// 校验失败不产生任何写入
	results, total, err := svc.List(ctx, dto.ListKnowledgeReq{})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, results)
}

func TestCreateOwnerIDMaxLength(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// 超过 255 字符在落库前就被拦下，返回字段级校验错误而不是驱动报错
	_, err := svc.Create(ctx, dto.CreateKnowledgeReq{
		OwnerID: strings.Repeat("a", 256), Text: "t1",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "owner_id", ve.Field)

	// 校验失败不产生任何写入
	_, total, err := svc.List(ctx, dto.ListKnowledgeReq{})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)

	// 恰好 255 字符是合法的
	resp, err := svc.Create(ctx, dto.CreateKnowledgeReq{
		OwnerID: strings.Repeat("a", 255), Text: "t1",
	})
	require.NoError(t, err)
	require.Len(t, resp.OwnerID, 255)
}

func TestUpdatePartialKeepsOtherFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateKnowledgeReq{
		OwnerID: "u1", Text: "original", Quiz: quizPtr([]string{"q1", "q2"}),
	})
	require.NoError(t, err)

	// PATCH 只改 text，quiz 不动
	updated, err := svc.Update(ctx, created.ID, dto.UpdateKnowledgeReq{Text: strPtr("changed")}, true)
	require.NoError(t, err)
	require.Equal(t, "changed", updated.Text)
	require.Equal(t, []string{"q1", "q2"}, updated.Quiz)
	require.Equal(t, "u1", updated.OwnerID)

	// quiz 是整体替换
	updated, err = svc.Update(ctx, created.ID, dto.UpdateKnowledgeReq{Quiz: quizPtr([]string{"q3"})}, true)
	require.NoError(t, err)
	require.Equal(t, "changed", updated.Text)
	require.Equal(t, []string{"q3"}, updated.Quiz)
}

func TestFullUpdateRequiresBothFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateKnowledgeReq{OwnerID: "u1", Text: "t1"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, dto.UpdateKnowledgeReq{Text: strPtr("x")}, false)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "quiz", ve.Field)

	_, err = svc.Update(ctx, created.ID, dto.UpdateKnowledgeReq{Quiz: quizPtr([]string{})}, false)
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "text", ve.Field)
}

func TestEmptyPartialUpdateRefreshesTimestamp(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateKnowledgeReq{OwnerID: "u1", Text: "t1"})
	require.NoError(t, err)

	baseline, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	// 不带任何字段的 PATCH 也是一次成功更新，updated_at 要往前走
	time.Sleep(20 * time.Millisecond)
	updated, err := svc.Update(ctx, created.ID, dto.UpdateKnowledgeReq{}, true)
	require.NoError(t, err)
	require.Equal(t, baseline.Text, updated.Text)
	require.Equal(t, baseline.Quiz, updated.Quiz)
	require.True(t, updated.UpdatedAt.After(baseline.UpdatedAt))
}

func TestUpdateMissingEntry(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), 9999, dto.UpdateKnowledgeReq{Text: strPtr("x")}, true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteRestoreRoundtrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateKnowledgeReq{
		OwnerID: "u1", Text: "keep me", Quiz: quizPtr([]string{"q1"}),
	})
	require.NoError(t, err)

	// 基线从库里读，时间戳对比不受驱动精度影响
	baseline, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, svc.SoftDelete(ctx, created.ID))

	// 删除后公开路径按不存在处理
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, total, err := svc.List(ctx, dto.ListKnowledgeReq{})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)

	time.Sleep(20 * time.Millisecond)
	restored, err := svc.Restore(ctx, created.ID)
	require.NoError(t, err)

	// 内容原样回来，时间戳单调递增
	require.Equal(t, baseline.Text, restored.Text)
	require.Equal(t, baseline.Quiz, restored.Quiz)
	require.Equal(t, baseline.OwnerID, restored.OwnerID)
	require.True(t, baseline.CreatedAt.Equal(restored.CreatedAt))
	require.True(t, restored.UpdatedAt.After(baseline.UpdatedAt))

	_, total, err = svc.List(ctx, dto.ListKnowledgeReq{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestRestoreErrorDiscrimination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateKnowledgeReq{OwnerID: "u1", Text: "t1"})
	require.NoError(t, err)

	// 没删过 → InvalidState，不是 NotFound
	_, err = svc.Restore(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotDeleted)

	// 根本不存在 → NotFound
	_, err = svc.Restore(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteMissingOrAlreadyDeleted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.SoftDelete(ctx, 9999), ErrNotFound)

	created, err := svc.Create(ctx, dto.CreateKnowledgeReq{OwnerID: "u1", Text: "t1"})
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, created.ID))

	// 已删除的再删一次：公开路径上它已经不存在了
	require.ErrorIs(t, svc.SoftDelete(ctx, created.ID), ErrNotFound)
}

func TestListOrderingValidation(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.List(context.Background(), dto.ListKnowledgeReq{Ordering: "secret_column"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "ordering", ve.Field)

	// 带降序前缀的白名单字段没问题
	_, _, err = svc.List(context.Background(), dto.ListKnowledgeReq{Ordering: "-updated_at"})
	require.NoError(t, err)
}

func TestListTimeParamValidation(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.List(context.Background(), dto.ListKnowledgeReq{CreatedAtGte: "yesterday"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "created_at_gte", ve.Field)

	_, _, err = svc.List(context.Background(), dto.ListKnowledgeReq{
		CreatedAtGte: time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
}
