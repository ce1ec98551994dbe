package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/shopbackend/internal/common"
	"github.com/example/shopbackend/internal/datamodels/product"
)

const (
	redisProductDetailKey  = "product:detail:%d" // productID
	productCacheTTLSeconds = 60
)

// 支持的图片类型及其扩展名
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

func allowedImageTypes() []string {
	return []string{"image/png", "image/jpeg", "image/jpg", "image/webp"}
}

// ImageStorage 图片存储，key 为不透明字符串
type ImageStorage interface {
	Save(key string, data []byte) error
	Delete(key string) error
}

// ProductService 商品目录服务：查询、管理、图片
// redis 与 storage 均可为 nil（测试或未部署对应组件时自动跳过）。
type ProductService struct {
	repo     product.Repository
	redis    radix.Client
	storage  ImageStorage
	maxImage int64
}

// NewProductService 创建商品服务
func NewProductService(repo product.Repository, redisClient radix.Client, storage ImageStorage, maxImageBytes int64) *ProductService {
	return &ProductService{
		repo:     repo,
		redis:    redisClient,
		storage:  storage,
		maxImage: maxImageBytes,
	}
}

// GetByID 查询商品，不存在时返回 NotFoundError
func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.NotFoundError{Resource: "商品", ID: id}
		}
		return nil, err
	}
	return p, nil
}

// GetDetail 查询商品详情，优先走 Redis 缓存
// 缓存仅用于展示；下单链路始终在事务内读数据库，避免价格快照取到旧值。
func (s *ProductService) GetDetail(ctx context.Context, id int64) (*product.Product, error) {
	if s.redis == nil {
		return s.GetByID(ctx, id)
	}

	key := fmt.Sprintf(redisProductDetailKey, id)
	var cached string
	if err := s.redis.Do(radix.Cmd(&cached, "GET", key)); err != nil {
		GetMonitor().RecordCacheError()
	} else if cached != "" {
		var p product.Product
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := s.redis.Do(radix.FlatCmd(nil, "SETEX", key, productCacheTTLSeconds, data)); err != nil {
			GetMonitor().RecordCacheError()
		}
	}
	return p, nil
}

func (s *ProductService) invalidateCache(id int64) {
	if s.redis == nil {
		return
	}
	key := fmt.Sprintf(redisProductDetailKey, id)
	if err := s.redis.Do(radix.Cmd(nil, "DEL", key)); err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("failed to invalidate product cache",
			zap.Int64("product_id", id), zap.Error(err))
	}
}

// ListAll 查询全部商品
func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListAll(ctx)
}

// SearchByName 按名称模糊查询（忽略大小写）
func (s *ProductService) SearchByName(ctx context.Context, query string) ([]*product.Product, error) {
	return s.repo.SearchByName(ctx, query)
}

// ListInStock 按是否有库存查询
func (s *ProductService) ListInStock(ctx context.Context, inStock bool) ([]*product.Product, error) {
	return s.repo.ListInStock(ctx, inStock)
}

// ListPriceBetween 按价格区间查询，from > to 返回 InvalidRangeError
func (s *ProductService) ListPriceBetween(ctx context.Context, from, to int64) ([]*product.Product, error) {
	if from > to {
		return nil, common.NewInvalidPriceRange(from, to)
	}
	return s.repo.ListPriceBetween(ctx, from, to)
}

// Create 新建商品
func (s *ProductService) Create(ctx context.Context, name string, price, stock int64) (*product.Product, error) {
	if price < 0 {
		return nil, errors.New("价格不能为负")
	}
	if stock < 0 {
		return nil, errors.New("库存不能为负")
	}
	p := &product.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update 更新商品名称/价格/库存
// 价格调整不影响已创建订单中的价格快照。
func (s *ProductService) Update(ctx context.Context, id int64, name string, price, stock int64) (*product.Product, error) {
	if price < 0 {
		return nil, errors.New("价格不能为负")
	}
	if stock < 0 {
		return nil, errors.New("库存不能为负")
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Price = price
	p.Stock = stock
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCache(id)
	return p, nil
}

// Delete 删除商品，先清除图片引用再删行
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.DeleteImage(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(id)
	return nil
}

// UploadImage 上传商品主图
// 空文件、超大文件、不支持的类型分别报错；替换图片时删除旧 key。
func (s *ProductService) UploadImage(ctx context.Context, id int64, contentType string, data []byte) (*product.Product, error) {
	if len(data) == 0 {
		return nil, errors.New("上传文件为空")
	}
	if int64(len(data)) > s.maxImage {
		return nil, &common.ImageTooLargeError{
			MaxBytes:    s.maxImage,
			ActualBytes: int64(len(data)),
		}
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, &common.InvalidImageTypeError{
			Given:   contentType,
			Allowed: allowedImageTypes(),
		}
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	imageKey := fmt.Sprintf("products/%d/main%s", id, ext)

	if p.ImageKey != nil && *p.ImageKey != imageKey {
		if _, err := s.DeleteImage(ctx, id); err != nil {
			return nil, err
		}
	}

	if s.storage != nil {
		if err := s.storage.Save(imageKey, data); err != nil {
			return nil, err
		}
	}

	p.ImageKey = &imageKey
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCache(id)
	return p, nil
}

// DeleteImage 清除商品图片引用，存储侧删除失败只记日志
func (s *ProductService) DeleteImage(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ImageKey == nil {
		return p, nil
	}

	oldKey := *p.ImageKey
	p.ImageKey = nil
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCache(id)

	if s.storage != nil {
		if err := s.storage.Delete(oldKey); err != nil {
			zap.L().Warn("failed to delete image from storage",
				zap.Int64("product_id", id),
				zap.String("image_key", oldKey),
				zap.Error(err))
		}
	}
	return p, nil
}
