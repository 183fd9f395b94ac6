package database

import (
	"database/sql"
	"fmt"

	"groupchat-backend/internal/models"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store owns every durable entity: users, spaces, channels, messages.
// Message ids are assigned by the database and form the canonical
// per-channel ordering.
type Store struct {
	db    *sql.DB
	sugar *zap.SugaredLogger
}

func setPragmaValues(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	// these next 2 extremely speed up performance of sqlite
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}

	return nil
}

func Setup(cfg *models.ConfigFile, sugar *zap.SugaredLogger) (*Store, error) {
	var db *sql.DB
	var err error

	if cfg.SelfContained {
		sugar.Info("Connecting to database sqlite...")

		dbFile := cfg.DbFile
		if dbFile == "" {
			dbFile = "./database.db"
		}

		db, err = sql.Open("sqlite", dbFile)
		if err != nil {
			return nil, err
		}

		// there can be sqlite busy errors if this is not set to 1; it also
		// serializes appends, so LastInsertId always matches commit order
		db.SetMaxOpenConns(1)

		err = setPragmaValues(db)
		if err != nil {
			return nil, err
		}
	} else {
		sugar.Info("Connecting to database mysql/mariadb...")

		db, err = sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&timeout=10s", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase))
		if err != nil {
			return nil, err
		}

		db.SetMaxOpenConns(10)
	}

	err = setupTables(db, cfg.SelfContained)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, sugar: sugar}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func setupTables(db *sql.DB, selfContained bool) error {
	// sqlite and mysql disagree on auto-assigned primary keys
	idColumn := "BIGINT PRIMARY KEY AUTO_INCREMENT"
	if selfContained {
		idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	var err error

	_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS users (
				id %s,
				username VARCHAR(32) NOT NULL UNIQUE,
				password BLOB NOT NULL,
				avatar TEXT
			);
		`, idColumn))
	if err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS servers (
				id %s,
				name VARCHAR(64) NOT NULL,
				invite VARCHAR(32) NOT NULL UNIQUE
			);
		`, idColumn))
	if err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS channels (
				id %s,
				server_id BIGINT NOT NULL,
				name VARCHAR(32) NOT NULL,
				type VARCHAR(16) NOT NULL DEFAULT 'text',
				FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE
			);
		`, idColumn))
	if err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS messages (
				id %s,
				channel_id BIGINT NOT NULL,
				user_id BIGINT NOT NULL,
				body TEXT NOT NULL,
				created_at BIGINT NOT NULL,
				FOREIGN KEY (channel_id) REFERENCES channels(id) ON DELETE CASCADE,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);
		`, idColumn))
	if err != nil {
		return err
	}

	return nil
}

// Bootstrap seeds the default space reachable under the "default" invite,
// with its "general" channel. Safe to run on every start.
func (s *Store) Bootstrap() error {
	var id int64
	err := s.db.QueryRow("SELECT id FROM servers WHERE invite = ?", "default").Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = s.insertSpace("Default Hub", "default")
	if err != nil {
		return err
	}

	s.sugar.Info("Created default space with invite [default]")
	return nil
}
