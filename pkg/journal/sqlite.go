package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal SQLite 审计日志
//
// 基于 SQLite 的持久化审计日志，可跨进程查看历史注入记录。
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal 创建 SQLite 审计日志
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return j, nil
}

// initSchema 初始化表结构
func (j *SQLiteJournal) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS injection_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		root TEXT,
		threshold REAL,
		max_files INTEGER,
		injected INTEGER,
		tokens_injected INTEGER,
		keys TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_injection_events_session ON injection_events(session_id, seq);
	`

	_, err := j.db.Exec(query)
	return err
}

// Record 追加事件
func (j *SQLiteJournal) Record(ctx context.Context, event *Event) error {
	if err := prepare(event); err != nil {
		return err
	}

	keys, err := json.Marshal(event.Keys)
	if err != nil {
		return fmt.Errorf("failed to marshal keys: %w", err)
	}

	query := `
	INSERT INTO injection_events
		(id, session_id, kind, root, threshold, max_files, injected, tokens_injected, keys, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = j.db.ExecContext(ctx, query,
		event.ID, event.SessionID, string(event.Kind), event.Root, event.Threshold,
		event.MaxFiles, event.Injected, event.TokensInjected, string(keys),
		event.CreatedAt.UnixMilli(),
	)
	return err
}

// List 按时间倒序列出事件
func (j *SQLiteJournal) List(ctx context.Context, sessionID string, limit int) ([]Event, error) {
	query := `SELECT id, session_id, kind, root, threshold, max_files, injected, tokens_injected, keys, created_at
	FROM injection_events`
	var args []interface{}

	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY seq DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Event
	for rows.Next() {
		var e Event
		var kind, keys string
		var createdAt int64

		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Root, &e.Threshold,
			&e.MaxFiles, &e.Injected, &e.TokensInjected, &keys, &createdAt); err != nil {
			return nil, err
		}

		if keys != "" && keys != "null" {
			if err := json.Unmarshal([]byte(keys), &e.Keys); err != nil {
				return nil, fmt.Errorf("failed to unmarshal keys: %w", err)
			}
		}

		e.Kind = Kind(kind)
		e.CreatedAt = time.UnixMilli(createdAt)
		results = append(results, e)
	}

	return results, rows.Err()
}

// Close 关闭数据库连接
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ Journal = (*SQLiteJournal)(nil)
