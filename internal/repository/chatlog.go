package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"shopassist/internal/model"
)

// ErrChatNotFound is returned when feedback refers to an unknown chat id.
var ErrChatNotFound = errors.New("chat not found")

const chatLogSchema = `
CREATE TABLE IF NOT EXISTS chat_logs (
	id                 BIGSERIAL PRIMARY KEY,
	chat_id            TEXT NOT NULL UNIQUE,
	user_id            TEXT,
	message            TEXT NOT NULL,
	query_type         TEXT NOT NULL,
	intent             JSONB,
	min_rating         DOUBLE PRECISION,
	product_ids        BIGINT[] NOT NULL DEFAULT '{}',
	result_count       INTEGER NOT NULL DEFAULT 0,
	clicked_product_id BIGINT,
	action             TEXT,
	duration_ms        BIGINT NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	feedback_at        TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_chat_logs_created_at ON chat_logs (created_at DESC);
`

// ChatLogRepository stores chat history in PostgreSQL.
type ChatLogRepository struct {
	db *sqlx.DB
}

// NewChatLogRepository connects to PostgreSQL and configures the pool.
func NewChatLogRepository(dsn string, maxConn, maxIdleConn int) (*ChatLogRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &ChatLogRepository{db: db}, nil
}

// NewChatLogRepositoryFromDB wraps an existing handle.
func NewChatLogRepositoryFromDB(db *sqlx.DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

// Close closes the database connection
func (r *ChatLogRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the chat_logs table if it does not exist.
func (r *ChatLogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, chatLogSchema); err != nil {
		return fmt.Errorf("failed to create chat_logs schema: %w", err)
	}
	return nil
}

// LogChat records one handled chat message.
func (r *ChatLogRepository) LogChat(ctx context.Context, entry *model.ChatLogEntry) error {
	query := `
		INSERT INTO chat_logs (chat_id, user_id, message, query_type, intent, min_rating, product_ids, result_count, duration_ms)
		VALUES (:chat_id, :user_id, :message, :query_type, :intent, :min_rating, :product_ids, :result_count, :duration_ms)
	`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to log chat: %w", err)
	}
	return nil
}

// LogFeedback attaches a user action to an earlier chat.
func (r *ChatLogRepository) LogFeedback(ctx context.Context, chatID string, productID int64, action string) error {
	query := `
		UPDATE chat_logs
		SET clicked_product_id = $2, action = $3, feedback_at = NOW()
		WHERE chat_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, chatID, productID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	if n == 0 {
		return ErrChatNotFound
	}
	return nil
}

// RecentChats returns the newest chat log entries first.
func (r *ChatLogRepository) RecentChats(ctx context.Context, limit int) ([]model.ChatLogEntry, error) {
	query := `
		SELECT id, chat_id, user_id, message, query_type, intent, min_rating, product_ids,
		       result_count, clicked_product_id, action, duration_ms, created_at, feedback_at
		FROM chat_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	var entries []model.ChatLogEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return entries, nil
}
