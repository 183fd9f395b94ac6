package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"groupchat-backend/internal/errs"
	"groupchat-backend/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// DefaultMessageLimit caps history replies when the caller doesn't ask
// for a smaller window.
const DefaultMessageLimit = 200

const inviteAttempts = 5

func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && (mysqlErr.Number == 1452 || mysqlErr.Number == 1216) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func (s *Store) CreateUser(username string, passwordHash []byte) (models.User, error) {
	result, err := s.db.Exec("INSERT INTO users (username, password, avatar) VALUES (?, ?, ?)", username, passwordHash, "")
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("username [%s] is taken: %w", username, errs.ErrConflict)
		}
		return models.User{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return models.User{ID: id, Username: username, Password: passwordHash}, nil
}

func (s *Store) FindUserByUsername(username string) (models.User, error) {
	var user models.User
	var avatar sql.NullString

	err := s.db.QueryRow("SELECT id, username, password, avatar FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.Password, &avatar)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("username [%s]: %w", username, errs.ErrNotFound)
		}
		return models.User{}, err
	}

	user.Avatar = avatar.String
	return user, nil
}

func (s *Store) UserExists(userID int64) (bool, error) {
	var userFound bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&userFound)
	if err != nil {
		return false, err
	}
	return userFound, nil
}

// CreateSpace inserts a space under a fresh random invite code and its
// "general" channel in one transaction. Invite collisions are retried
// with a new code before giving up.
func (s *Store) CreateSpace(name string) (models.Space, error) {
	for attempt := 0; attempt < inviteAttempts; attempt++ {
		invite := newInvite()

		space, err := s.insertSpace(name, invite)
		if err == nil {
			return space, nil
		}
		if !errors.Is(err, errs.ErrConflict) {
			return models.Space{}, err
		}

		s.sugar.Warnf("Invite code [%s] collided, regenerating", invite)
	}

	return models.Space{}, fmt.Errorf("invite generation kept colliding: %w", errs.ErrConflict)
}

func newInvite() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (s *Store) insertSpace(name string, invite string) (models.Space, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Space{}, err
	}
	defer tx.Rollback()

	result, err := tx.Exec("INSERT INTO servers (name, invite) VALUES (?, ?)", name, invite)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Space{}, fmt.Errorf("invite [%s] is taken: %w", invite, errs.ErrConflict)
		}
		return models.Space{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Space{}, err
	}

	_, err = tx.Exec("INSERT INTO channels (server_id, name, type) VALUES (?, ?, ?)", id, "general", "text")
	if err != nil {
		return models.Space{}, err
	}

	err = tx.Commit()
	if err != nil {
		return models.Space{}, err
	}

	return models.Space{ID: id, Name: name, Invite: invite}, nil
}

func (s *Store) FindSpaceByInvite(invite string) (models.Space, error) {
	var space models.Space

	err := s.db.QueryRow("SELECT id, name, invite FROM servers WHERE invite = ?", invite).
		Scan(&space.ID, &space.Name, &space.Invite)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Space{}, fmt.Errorf("invite [%s]: %w", invite, errs.ErrNotFound)
		}
		return models.Space{}, err
	}

	return space, nil
}

func (s *Store) ListSpaces() ([]models.Space, error) {
	rows, err := s.db.Query("SELECT id, name, invite FROM servers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spaces := []models.Space{}

	for rows.Next() {
		var space models.Space

		err := rows.Scan(&space.ID, &space.Name, &space.Invite)
		if err != nil {
			return nil, err
		}

		spaces = append(spaces, space)
	}

	return spaces, rows.Err()
}

func (s *Store) ListChannels(spaceID int64) ([]models.Channel, error) {
	rows, err := s.db.Query("SELECT id, server_id, name, type FROM channels WHERE server_id = ? ORDER BY id", spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []models.Channel{}

	for rows.Next() {
		var channel models.Channel

		err := rows.Scan(&channel.ID, &channel.SpaceID, &channel.Name, &channel.Kind)
		if err != nil {
			return nil, err
		}

		channels = append(channels, channel)
	}

	return channels, rows.Err()
}

func (s *Store) CreateChannel(spaceID int64, name string) (models.Channel, error) {
	result, err := s.db.Exec("INSERT INTO channels (server_id, name, type) VALUES (?, ?, ?)", spaceID, name, "text")
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Channel{}, fmt.Errorf("space [%d]: %w", spaceID, errs.ErrNotFound)
		}
		return models.Channel{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Channel{}, err
	}

	return models.Channel{ID: id, SpaceID: spaceID, Name: name, Kind: "text"}, nil
}

func (s *Store) FindChannel(channelID int64) (models.Channel, error) {
	var channel models.Channel

	err := s.db.QueryRow("SELECT id, server_id, name, type FROM channels WHERE id = ?", channelID).
		Scan(&channel.ID, &channel.SpaceID, &channel.Name, &channel.Kind)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Channel{}, fmt.Errorf("channel [%d]: %w", channelID, errs.ErrNotFound)
		}
		return models.Channel{}, err
	}

	return channel, nil
}

// AppendMessage commits the message and returns it with the id and
// timestamp the store assigned. The id is strictly increasing across the
// whole store, so within a channel it equals commit order.
func (s *Store) AppendMessage(channelID int64, userID int64, body string) (models.Message, error) {
	createdAt := time.Now().UnixMilli()

	result, err := s.db.Exec("INSERT INTO messages (channel_id, user_id, body, created_at) VALUES (?, ?, ?, ?)", channelID, userID, body, createdAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Message{}, fmt.Errorf("channel [%d]: %w", channelID, errs.ErrNotFound)
		}
		return models.Message{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Message{}, err
	}

	return models.Message{
		ID:        id,
		ChannelID: channelID,
		UserID:    userID,
		Body:      body,
		CreatedAt: createdAt,
	}, nil
}

// ListMessages replays history for a channel ascending by id, joined
// with the author's username and avatar. limit <= 0 means the default cap.
func (s *Store) ListMessages(channelID int64, limit int) ([]models.MessageView, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	query := `
		SELECT
			messages.id,
			messages.body,
			users.username,
			users.avatar,
			messages.created_at
		FROM
			messages
		JOIN
			users ON messages.user_id = users.id
		WHERE
			messages.channel_id = ?
		ORDER BY
			messages.id
		LIMIT ?
	`

	rows, err := s.db.Query(query, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.MessageView{}

	for rows.Next() {
		var msg models.MessageView
		var avatar sql.NullString

		err := rows.Scan(&msg.ID, &msg.Body, &msg.Username, &avatar, &msg.Ts)
		if err != nil {
			return nil, err
		}

		msg.Avatar = avatar.String
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
