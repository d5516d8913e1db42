// Package cache persists the enriched project list per username in SQLite,
// playing the role browser localStorage plays for the rendered page.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-projects/internal/domain"

	_ "modernc.org/sqlite"
)

// Store 实现了 port.CacheStore 接口
type Store struct {
	db      *sql.DB
	nowFunc func() time.Time // 便于测试注入当前时间
}

// New 打开 (或创建) 缓存数据库
// 测试时传 ":memory:" 使用内存库
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开缓存数据库失败: %w", err)
	}

	store := &Store{db: db, nowFunc: time.Now}

	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化缓存表失败: %w", err)
	}

	return store, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS repo_cache (
		key   TEXT PRIMARY KEY,
		entry TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get 读取某个用户名的缓存
// 过期、为空或不存在都按未命中处理，损坏的条目同样按未命中处理
func (s *Store) Get(ctx context.Context, username string) ([]*domain.Project, bool, error) {
	var payload string
	row := s.db.QueryRowContext(ctx,
		"SELECT entry FROM repo_cache WHERE key = ?", domain.CacheKey(username))
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("读取缓存失败: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, false, nil
	}

	if !entry.Fresh(s.nowFunc()) || len(entry.Data) == 0 {
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Put 写入某个用户名的最终项目列表，覆盖旧条目
func (s *Store) Put(ctx context.Context, username string, projects []*domain.Project) error {
	entry := domain.CacheEntry{
		Timestamp: s.nowFunc().UnixMilli(),
		Data:      projects,
	}

	payload, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("序列化缓存条目失败: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO repo_cache (key, entry) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET entry = excluded.entry",
		domain.CacheKey(username), string(payload))
	if err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}
