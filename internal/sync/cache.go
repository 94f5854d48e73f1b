package sync

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
)

// ErrCacheMiss 键不存在
var ErrCacheMiss = errors.New("cache miss")

// Cache 设备本地键值缓存，是未登录状态下唯一的持久层
type Cache interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// BadgerCache 基于 Badger 的本地缓存实现
type BadgerCache struct {
	db *badger.DB
}

// OpenBadgerCache 打开（或创建）本地缓存目录
func OpenBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开本地缓存失败: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

func (c *BadgerCache) Get(key string) ([]byte, error) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("读取缓存失败: %w", err)
	}
	return out, nil
}

func (c *BadgerCache) Put(key string, value []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}

func (c *BadgerCache) Delete(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// MemoryCache 内存实现，测试用
type MemoryCache struct {
	data map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]byte)}
}

func (c *MemoryCache) Get(key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

func (c *MemoryCache) Put(key string, value []byte) error {
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	delete(c.data, key)
	return nil
}

func (c *MemoryCache) Close() error { return nil }
