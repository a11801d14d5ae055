package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

func (d *DB) CreateChat(ctx context.Context, create *store.Chat) (*store.Chat, error) {
	stmt := `
		INSERT INTO chats (chat_id, user_id)
		VALUES (` + placeholders(2) + `)
		RETURNING created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, create.ID, create.UserID).Scan(&create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create chat")
	}
	return create, nil
}

func (d *DB) ListChats(ctx context.Context, find *store.FindChat) ([]*store.Chat, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "chat_id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}

	query := `SELECT chat_id, user_id, created_ts FROM chats WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chats")
	}
	defer rows.Close()

	list := []*store.Chat{}
	for rows.Next() {
		c := &store.Chat{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat")
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate chats")
	}
	return list, nil
}

func (d *DB) CreateMessage(ctx context.Context, create *store.Message) (*store.Message, error) {
	stmt := `
		INSERT INTO messages (chat_id, message_text, message_type)
		VALUES (` + placeholders(3) + `)
		RETURNING id, created_ts`
	err := d.db.QueryRowContext(ctx, stmt, create.ChatID, create.Text, string(create.Type)).Scan(&create.ID, &create.CreatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create message")
	}
	return create, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ChatID != nil {
		where, args = append(where, "chat_id = "+placeholder(len(args)+1)), append(args, *find.ChatID)
	}

	query := `SELECT id, chat_id, message_text, message_type, created_ts FROM messages WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts, id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}
	defer rows.Close()

	list := []*store.Message{}
	for rows.Next() {
		m := &store.Message{}
		var msgType string
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Text, &msgType, &m.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan message")
		}
		m.Type = store.MessageType(msgType)
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate messages")
	}
	return list, nil
}
