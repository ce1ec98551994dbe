package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalImageStorage 本地磁盘图片存储，key 为相对路径形式的不透明字符串
// 例如 products/3/main.png 存储到 <dir>/products/3/main.png。
type LocalImageStorage struct {
	dir string
}

// NewLocalImageStorage 创建本地图片存储
func NewLocalImageStorage(dir string) *LocalImageStorage {
	return &LocalImageStorage{dir: dir}
}

func (s *LocalImageStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid image key: %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

// Save 写入图片内容，必要时创建父目录
func (s *LocalImageStorage) Save(key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

// Delete 删除图片，key 不存在时视为成功
func (s *LocalImageStorage) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
