package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

func (d *DB) UpsertUser(ctx context.Context, upsert *store.User) (*store.User, error) {
	stmt := `
		INSERT INTO users (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, upsert.ID).Scan(&upsert.ID, &upsert.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert user")
	}
	return upsert, nil
}

func (d *DB) GetUser(ctx context.Context, find *store.FindUser) (*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}

	query := `SELECT user_id, created_ts FROM users WHERE ` + strings.Join(where, " AND ")
	user := &store.User{}
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedTs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	return user, nil
}
