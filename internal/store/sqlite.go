package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/genmind-ai/backend/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	if !strings.Contains(dataSourceName, "_foreign_keys") {
		dataSourceName += "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        email TEXT UNIQUE NOT NULL,
        phone_number TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        last_login DATETIME
    );

    CREATE TABLE IF NOT EXISTS conversations (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        name TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS turns (
        id TEXT PRIMARY KEY, -- UUID
        conversation_id TEXT NOT NULL,
        query_text TEXT,
        file_path TEXT,
        response_json TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        CHECK (query_text IS NOT NULL OR file_path IS NOT NULL),
        FOREIGN KEY (conversation_id) REFERENCES conversations (id) ON DELETE CASCADE
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// User methods

func (s *SQLiteStore) CreateUser(u *User) error {
	u.ID = uuid.NewString()
	u.Name = strings.ToLower(u.Name)
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(
		"INSERT INTO users (id, name, email, phone_number, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, u.PhoneNumber, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with this email or phone already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUserByID(id string) (*User, error) {
	return s.queryUser("SELECT id, name, email, phone_number, password_hash, created_at, last_login FROM users WHERE id = ?", id)
}

// GetUserByEmailOrPhone looks a user up by whichever identifier is
// non-empty. Email takes precedence when both are given.
func (s *SQLiteStore) GetUserByEmailOrPhone(email, phone string) (*User, error) {
	switch {
	case email != "" && phone != "":
		return s.queryUser("SELECT id, name, email, phone_number, password_hash, created_at, last_login FROM users WHERE email = ? AND phone_number = ?", email, phone)
	case email != "":
		return s.queryUser("SELECT id, name, email, phone_number, password_hash, created_at, last_login FROM users WHERE email = ?", email)
	case phone != "":
		return s.queryUser("SELECT id, name, email, phone_number, password_hash, created_at, last_login FROM users WHERE phone_number = ?", phone)
	default:
		return nil, fmt.Errorf("email or phone required: %w", domain.ErrInvalidInput)
	}
}

func (s *SQLiteStore) queryUser(query string, args ...any) (*User, error) {
	var user User
	var lastLogin sql.NullTime
	err := s.db.QueryRow(query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &user.PasswordHash, &user.CreatedAt, &lastLogin,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

func (s *SQLiteStore) GetAllUsers() ([]User, error) {
	rows, err := s.db.Query("SELECT id, name, email, phone_number, password_hash, created_at, last_login FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		var lastLogin sql.NullTime
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &user.PasswordHash, &user.CreatedAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		if lastLogin.Valid {
			user.LastLogin = &lastLogin.Time
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) UpdateUser(id string, upd UserUpdate) error {
	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.ToLower(*upd.Name))
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.PhoneNumber != nil {
		sets = append(sets, "phone_number = ?")
		args = append(args, *upd.PhoneNumber)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := s.db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with this email or phone already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) UpdateLastLogin(id string, t time.Time) error {
	res, err := s.db.Exec("UPDATE users SET last_login = ? WHERE id = ?", t, id)
	if err != nil {
		return fmt.Errorf("failed to update last_login: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Conversation methods

// CreateConversation inserts a conversation under a caller-supplied id.
// Membership in the owner's conversation list is the row itself, so the
// append is atomic and idempotent: a retried insert with the same id is
// a primary-key conflict, not a second list entry.
func (s *SQLiteStore) CreateConversation(id, userID, name string) (*Conversation, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO conversations (id, user_id, name, created_at) VALUES (?, ?, ?, ?)",
		id, user.ID, name, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return s.GetConversation(id)
		}
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}
	return &Conversation{ID: id, UserID: user.ID, Name: name, CreatedAt: now, Turns: []Turn{}}, nil
}

func (s *SQLiteStore) GetConversation(id string) (*Conversation, error) {
	var conv Conversation
	err := s.db.QueryRow(
		"SELECT id, user_id, name, created_at FROM conversations WHERE id = ?", id,
	).Scan(&conv.ID, &conv.UserID, &conv.Name, &conv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	turns, err := s.getTurns(id)
	if err != nil {
		return nil, err
	}
	conv.Turns = turns
	return &conv, nil
}

func (s *SQLiteStore) GetConversationIDs(userID string) ([]string, error) {
	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT id FROM conversations WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan conversation id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) GetConversationNames(userID string) ([]ConversationName, error) {
	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT id, name FROM conversations WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	names := []ConversationName{}
	for rows.Next() {
		var cn ConversationName
		if err := rows.Scan(&cn.ConversationID, &cn.ConversationName); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		names = append(names, cn)
	}
	return names, rows.Err()
}

// Turn methods

// AppendTurn inserts one immutable turn. A turn with neither query text
// nor file reference is rejected before touching the database.
func (s *SQLiteStore) AppendTurn(t *Turn) error {
	if t.QueryText == nil && t.FilePath == nil {
		return fmt.Errorf("turn requires query text or file reference: %w", domain.ErrInvalidInput)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	var responseJSON sql.NullString
	if t.Response != nil {
		data, err := json.Marshal(t.Response)
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		responseJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.Exec(
		"INSERT INTO turns (id, conversation_id, query_text, file_path, response_json, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		t.ID, t.ConversationID, t.QueryText, t.FilePath, responseJSON, t.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("conversation %s: %w", t.ConversationID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

func (s *SQLiteStore) getTurns(conversationID string) ([]Turn, error) {
	rows, err := s.db.Query(
		"SELECT id, conversation_id, query_text, file_path, response_json, created_at FROM turns WHERE conversation_id = ? ORDER BY created_at ASC, id ASC",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns := []Turn{}
	for rows.Next() {
		var t Turn
		var queryText, filePath, responseJSON sql.NullString
		if err := rows.Scan(&t.ID, &t.ConversationID, &queryText, &filePath, &responseJSON, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn row: %w", err)
		}
		if queryText.Valid {
			t.QueryText = &queryText.String
		}
		if filePath.Valid {
			t.FilePath = &filePath.String
		}
		if responseJSON.Valid && responseJSON.String != "" {
			var resp domain.ModelResponse
			if err := json.Unmarshal([]byte(responseJSON.String), &resp); err != nil {
				return nil, fmt.Errorf("failed to unmarshal response for turn %s: %w", t.ID, err)
			}
			t.Response = &resp
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
