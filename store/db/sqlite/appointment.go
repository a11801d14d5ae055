package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

func (d *DB) ListOpenSlots(ctx context.Context, find *store.FindOpenSlots) ([]string, error) {
	where, args := []string{"day = ?", "is_booked = 0"}, []any{find.Day}
	if find.After != nil {
		where, args = append(where, "time > ?"), append(args, *find.After)
	}

	query := `SELECT time FROM appointments WHERE ` + strings.Join(where, " AND ") + ` ORDER BY time`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list open slots")
	}
	defer rows.Close()

	slots := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, errors.Wrap(err, "failed to scan slot time")
		}
		slots = append(slots, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate slots")
	}
	return slots, nil
}

// BookSlot books the appointment at (day, time) inside one transaction.
// SQLite serializes writers, so the conditional UPDATE either wins the slot
// or reports zero affected rows when a concurrent booking got there first.
func (d *DB) BookSlot(ctx context.Context, book *store.BookSlot) (*store.Reservation, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classifyError(err, "failed to begin booking transaction")
	}
	defer tx.Rollback()

	var appointmentID int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM appointments WHERE day = ? AND time = ? AND is_booked = 0`,
		book.Day, book.Time,
	).Scan(&appointmentID)
	if err == sql.ErrNoRows {
		return nil, store.ErrSlotUnavailable
	}
	if err != nil {
		return nil, classifyError(err, "failed to find appointment")
	}

	result, err := tx.ExecContext(ctx, `UPDATE appointments SET is_booked = 1 WHERE id = ? AND is_booked = 0`, appointmentID)
	if err != nil {
		return nil, classifyError(err, "failed to mark appointment booked")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, store.ErrSlotUnavailable
	}

	reservation := &store.Reservation{
		UserID:        book.UserID,
		ChatID:        book.ChatID,
		AppointmentID: appointmentID,
		Day:           book.Day,
		Time:          book.Time,
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO reservations (user_id, chat_id, appointment_id, day, time)
		VALUES (`+placeholders(5)+`)`,
		book.UserID, book.ChatID, appointmentID, book.Day, book.Time,
	)
	if err != nil {
		return nil, classifyError(err, "failed to insert reservation")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, classifyError(err, "failed to read reservation id")
	}
	reservation.ID = int32(id)

	if err := tx.Commit(); err != nil {
		return nil, classifyError(err, "failed to commit booking")
	}
	return reservation, nil
}

func (d *DB) CancelReservation(ctx context.Context, cancel *store.CancelReservation) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin cancellation transaction")
	}
	defer tx.Rollback()

	var appointmentID int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM appointments WHERE day = ? AND time = ?`,
		cancel.Day, cancel.Time,
	).Scan(&appointmentID)
	if err == sql.ErrNoRows {
		return store.ErrAppointmentNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to find appointment")
	}

	var reservationID int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM reservations WHERE user_id = ? AND appointment_id = ?`,
		cancel.UserID, appointmentID,
	).Scan(&reservationID)
	if err == sql.ErrNoRows {
		return store.ErrNotOwner
	}
	if err != nil {
		return errors.Wrap(err, "failed to find reservation")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID); err != nil {
		return errors.Wrap(err, "failed to delete reservation")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE appointments SET is_booked = 0 WHERE id = ?`, appointmentID); err != nil {
		return errors.Wrap(err, "failed to reopen appointment")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit cancellation")
	}
	return nil
}

func (d *DB) ListReservations(ctx context.Context, find *store.FindReservation) ([]*store.Reservation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.UserID != nil {
		where, args = append(where, "r.user_id = ?"), append(args, *find.UserID)
	}

	query := `
		SELECT r.id, r.user_id, COALESCE(r.chat_id, ''), r.appointment_id, a.day, a.time
		FROM reservations r
		JOIN appointments a ON r.appointment_id = a.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.day, a.time`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reservations")
	}
	defer rows.Close()

	list := []*store.Reservation{}
	for rows.Next() {
		r := &store.Reservation{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.ChatID, &r.AppointmentID, &r.Day, &r.Time); err != nil {
			return nil, errors.Wrap(err, "failed to scan reservation")
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate reservations")
	}
	return list, nil
}
