// Package store persists conversations and messages in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"aichorus/internal/models"
	"aichorus/internal/util"
)

// ErrNotFound reports an operation against an identifier that does not
// exist. Callers use it to distinguish "not found" from storage failures.
var ErrNotFound = errors.New("not found")

// ErrEmptyContent reports message content that is empty after trimming.
var ErrEmptyContent = errors.New("message content is empty")

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and ensures the
// schema exists.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection also
	// keeps :memory: databases from splitting across connections.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateConversation creates a conversation with a generated id, the default
// title and a zero message count.
func (s *Store) CreateConversation(provider, model string) (*models.Conversation, error) {
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		Title:     models.DefaultTitle,
		Provider:  provider,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(`
        INSERT INTO conversations (id, title, provider, model, created_at, updated_at, message_count)
        VALUES (?, ?, ?, ?, ?, ?, 0)`,
		conv.ID, conv.Title, conv.Provider, conv.Model, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}

	return conv, nil
}

// UpdateConversationTitle overwrites the title and bumps updated_at.
// Returns ErrNotFound when no conversation has the given id.
func (s *Store) UpdateConversationTitle(id, title string) error {
	res, err := s.db.Exec(
		`UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update conversation title: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListConversations returns all conversations, most recently active first.
func (s *Store) ListConversations() ([]models.Conversation, error) {
	rows, err := s.db.Query(`
        SELECT id, title, provider, model, created_at, updated_at, message_count
        FROM conversations
        ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.Provider, &conv.Model,
			&conv.CreatedAt, &conv.UpdatedAt, &conv.MessageCount); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// GetConversation returns a single conversation, or ErrNotFound.
func (s *Store) GetConversation(id string) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := s.db.QueryRow(`
        SELECT id, title, provider, model, created_at, updated_at, message_count
        FROM conversations
        WHERE id = ?`, id).Scan(&conv.ID, &conv.Title, &conv.Provider, &conv.Model,
		&conv.CreatedAt, &conv.UpdatedAt, &conv.MessageCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

// DeleteConversation removes the conversation and every one of its messages
// in a single transaction.
func (s *Store) DeleteConversation(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// AddMessage validates, sanitizes and appends a message, incrementing the
// parent conversation's message count and bumping its updated_at in the same
// transaction. The store assigns ID and Timestamp. Returns ErrNotFound when
// the parent conversation does not exist and ErrEmptyContent when the content
// trims to nothing.
func (s *Store) AddMessage(msg *models.Message) error {
	content := util.SanitizeMessage(msg.Content)
	if content == "" {
		return ErrEmptyContent
	}

	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The count increment doubles as the parent existence check, so an
	// orphan insert is impossible.
	res, err := tx.Exec(
		`UPDATE conversations SET message_count = message_count + 1, updated_at = ? WHERE id = ?`,
		now, msg.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to update message count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversation %s: %w", msg.ConversationID, ErrNotFound)
	}

	var provider sql.NullString
	if msg.Provider != "" {
		provider = sql.NullString{String: msg.Provider, Valid: true}
	}

	ins, err := tx.Exec(
		`INSERT INTO messages (conversation_id, role, content, timestamp, provider) VALUES (?, ?, ?, ?, ?)`,
		msg.ConversationID, msg.Role, content, now, provider)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := ins.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get message ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	msg.ID = id
	msg.Content = content
	msg.Timestamp = now
	return nil
}

// GetMessages returns all messages for the conversation ordered by timestamp
// ascending, with the insertion-ordered id as tie-break. A conversation with
// no messages (or no conversation at all) yields an empty slice.
func (s *Store) GetMessages(conversationID string) ([]models.Message, error) {
	rows, err := s.db.Query(`
        SELECT id, conversation_id, role, content, timestamp, provider
        FROM messages
        WHERE conversation_id = ?
        ORDER BY timestamp ASC, id ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		var provider sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content,
			&msg.Timestamp, &provider); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Provider = provider.String
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteMessage removes a single message and decrements the parent
// conversation's message count.
func (s *Store) DeleteMessage(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var conversationID string
	err = tx.QueryRow(`SELECT conversation_id FROM messages WHERE id = ?`, id).Scan(&conversationID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get message: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE conversations SET message_count = message_count - 1 WHERE id = ?`,
		conversationID); err != nil {
		return fmt.Errorf("failed to update message count: %w", err)
	}

	return tx.Commit()
}

// ClearConversationMessages deletes all messages for the conversation and
// resets its message count to zero, atomically. The conversation record
// itself survives.
func (s *Store) ClearConversationMessages(conversationID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE conversations SET message_count = 0 WHERE id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to reset message count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	return tx.Commit()
}
