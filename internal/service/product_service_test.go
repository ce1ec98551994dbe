package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopbackend/internal/common"
	"github.com/example/shopbackend/internal/repository/mysql"
)

// fakeStorage 内存图片存储，记录调用便于断言
type fakeStorage struct {
	saved   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (s *fakeStorage) Save(key string, data []byte) error {
	s.saved[key] = data
	return nil
}

func (s *fakeStorage) Delete(key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.saved, key)
	return nil
}

func newProductService(t *testing.T) (*ProductService, *fakeStorage) {
	t.Helper()
	db := newTestDB(t)
	st := newFakeStorage()
	return NewProductService(mysql.NewProductRepository(db), nil, st, 5*1024*1024), st
}

func TestProductGetByIDMissing(t *testing.T) {
	svc, _ := newProductService(t)

	_, err := svc.GetByID(context.Background(), 99999)

	var notFound *common.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99999), notFound.ID)
}

func TestProductCreateAndGet(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 199, 19)
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", got.Name)
	assert.Equal(t, int64(199), got.Price)
	assert.Equal(t, int64(19), got.Stock)
}

func TestProductCreateRejectsNegativeValues(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Shirt", -1, 0)
	require.Error(t, err)

	_, err = svc.Create(ctx, "Shirt", 1, -1)
	require.Error(t, err)
}

func TestProductUpdate(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	got, err := svc.Update(ctx, p.ID, "Black Shirt", 150, 8)
	require.NoError(t, err)
	assert.Equal(t, "Black Shirt", got.Name)
	assert.Equal(t, int64(150), got.Price)
	assert.Equal(t, int64(8), got.Stock)
}

func TestProductListPriceBetweenInvalidRange(t *testing.T) {
	svc, _ := newProductService(t)

	_, err := svc.ListPriceBetween(context.Background(), 500, 100)

	var badRange *common.InvalidRangeError
	require.ErrorAs(t, err, &badRange)
	assert.Equal(t, "500", badRange.From)
	assert.Equal(t, "100", badRange.To)
}

func TestUploadImage(t *testing.T) {
	svc, st := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	got, err := svc.UploadImage(ctx, p.ID, "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, got.ImageKey)
	assert.Contains(t, *got.ImageKey, ".png")
	assert.Contains(t, st.saved, *got.ImageKey)
}

func TestUploadImageRejectsEmptyFile(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, p.ID, "image/png", nil)
	require.Error(t, err)
}

func TestUploadImageRejectsTooLarge(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(mysql.NewProductRepository(db), nil, newFakeStorage(), 10)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, p.ID, "image/png", []byte("0123456789ab"))

	var tooLarge *common.ImageTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(10), tooLarge.MaxBytes)
	assert.Equal(t, int64(12), tooLarge.ActualBytes)
}

func TestUploadImageRejectsUnknownType(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, p.ID, "application/pdf", []byte("data"))

	var badType *common.InvalidImageTypeError
	require.ErrorAs(t, err, &badType)
	assert.Equal(t, "application/pdf", badType.Given)
	assert.NotEmpty(t, badType.Allowed)
}

func TestUploadImageReplacesOldKey(t *testing.T) {
	svc, st := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, p.ID, "image/png", []byte("v1"))
	require.NoError(t, err)

	got, err := svc.UploadImage(ctx, p.ID, "image/webp", []byte("v2"))
	require.NoError(t, err)
	require.NotNil(t, got.ImageKey)
	assert.Contains(t, *got.ImageKey, ".webp")

	// 旧图片 key 已从存储删除
	assert.Len(t, st.saved, 1)
	assert.NotEmpty(t, st.deleted)
}

func TestDeleteImageClearsReference(t *testing.T) {
	svc, st := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, p.ID, "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)

	got, err := svc.DeleteImage(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageKey)
	assert.Empty(t, st.saved)
}

func TestDeleteImageWithoutImageIsNoop(t *testing.T) {
	svc, st := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	got, err := svc.DeleteImage(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageKey)
	assert.Empty(t, st.deleted)
}

func TestDeleteProductClearsImageFirst(t *testing.T) {
	svc, st := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "Shirt", 100, 10)
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, p.ID, "image/png", []byte("png"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.GetByID(ctx, p.ID)
	var notFound *common.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, st.saved)
}
