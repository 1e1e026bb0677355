package main

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	RoleOps    = "ops"
	RoleClient = "client"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsVerified   bool
	Role         string
}

type FileRecord struct {
	ID           int64
	StoredName   string
	OriginalName string
	UploaderID   int64
}

var db *sql.DB

func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := db.Ping(); err != nil {
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_verified INTEGER NOT NULL DEFAULT 0,
		role TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stored_name TEXT NOT NULL UNIQUE,
		original_name TEXT NOT NULL,
		uploader_id INTEGER NOT NULL REFERENCES users(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err = db.Exec(schema)
	return err
}

func CreateUser(email, passwordHash, role string) (int64, error) {
	result, err := db.Exec(
		"INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)",
		email, passwordHash, role,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return result.LastInsertId()
}

func GetUserByEmail(email string) (*User, error) {
	return scanUser(db.QueryRow(
		"SELECT id, email, password_hash, is_verified, role FROM users WHERE email = ?",
		email,
	))
}

func GetUserByID(id int64) (*User, error) {
	return scanUser(db.QueryRow(
		"SELECT id, email, password_hash, is_verified, role FROM users WHERE id = ?",
		id,
	))
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsVerified, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func MarkUserVerified(id int64) error {
	result, err := db.Exec("UPDATE users SET is_verified = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func CreateFile(storedName, originalName string, uploaderID int64) (int64, error) {
	result, err := db.Exec(
		"INSERT INTO files (stored_name, original_name, uploader_id) VALUES (?, ?, ?)",
		storedName, originalName, uploaderID,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func GetFileByID(id int64) (*FileRecord, error) {
	var record FileRecord
	err := db.QueryRow(
		"SELECT id, stored_name, original_name, uploader_id FROM files WHERE id = ?",
		id,
	).Scan(&record.ID, &record.StoredName, &record.OriginalName, &record.UploaderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func ListFiles() ([]FileRecord, error) {
	rows, err := db.Query("SELECT id, stored_name, original_name, uploader_id FROM files ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var record FileRecord
		if err := rows.Scan(&record.ID, &record.StoredName, &record.OriginalName, &record.UploaderID); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func CloseDB() {
	if db != nil {
		db.Close()
	}
}
