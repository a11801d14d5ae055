package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

func (d *DB) ListOpenSlots(ctx context.Context, find *store.FindOpenSlots) ([]string, error) {
	where, args := []string{"day = $1", "is_booked = FALSE"}, []any{find.Day}
	if find.After != nil {
		where, args = append(where, "time > "+placeholder(len(args)+1)), append(args, *find.After)
	}

	query := `SELECT to_char(time, 'HH24:MI') FROM appointments WHERE ` + strings.Join(where, " AND ") + ` ORDER BY time`
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

// BookSlot locks the matching unbooked appointment row, flips is_booked and
// inserts the reservation in one transaction. Concurrent attempts for the
// same slot block on the row lock; the loser then sees zero matching rows
// and gets ErrSlotUnavailable.
func (d *DB) BookSlot(ctx context.Context, book *store.BookSlot) (*store.Reservation, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classifyError(err, "failed to begin booking transaction")
	}
	defer tx.Rollback()

	var appointmentID int32
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM appointments
		WHERE day = $1 AND time = $2 AND is_booked = FALSE
		FOR UPDATE`,
		book.Day, book.Time,
	).Scan(&appointmentID)
	if err == sql.ErrNoRows {
		return nil, store.ErrSlotUnavailable
	}
	if err != nil {
		return nil, classifyError(err, "failed to lock appointment row")
	}

	if _, err := tx.ExecContext(ctx, `UPDATE appointments SET is_booked = TRUE WHERE id = $1`, appointmentID); err != nil {
		return nil, classifyError(err, "failed to mark appointment booked")
	}

	reservation := &store.Reservation{
		UserID:        book.UserID,
		ChatID:        book.ChatID,
		AppointmentID: appointmentID,
		Day:           book.Day,
		Time:          book.Time,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO reservations (user_id, chat_id, appointment_id, day, time)
		VALUES (`+placeholders(5)+`)
		RETURNING id`,
		book.UserID, book.ChatID, appointmentID, book.Day, book.Time,
	).Scan(&reservation.ID)
	if err != nil {
		return nil, classifyError(err, "failed to insert reservation")
	}

	if err := tx.Commit(); err != nil {
		return nil, classifyError(err, "failed to commit booking")
	}
	return reservation, nil
}

// CancelReservation validates ownership and reverses the booking in one
// transaction: the reservation row is deleted and the appointment reopened.
func (d *DB) CancelReservation(ctx context.Context, cancel *store.CancelReservation) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin cancellation transaction")
	}
	defer tx.Rollback()

	var appointmentID int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM appointments WHERE day = $1 AND time = $2`,
		cancel.Day, cancel.Time,
	).Scan(&appointmentID)
	if err == sql.ErrNoRows {
		return store.ErrAppointmentNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to find appointment")
	}

	var reservationID int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM reservations WHERE user_id = $1 AND appointment_id = $2`,
		cancel.UserID, appointmentID,
	).Scan(&reservationID)
	if err == sql.ErrNoRows {
		return store.ErrNotOwner
	}
	if err != nil {
		return errors.Wrap(err, "failed to find reservation")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, reservationID); err != nil {
		return errors.Wrap(err, "failed to delete reservation")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE appointments SET is_booked = FALSE WHERE id = $1`, appointmentID); err != nil {
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
		where, args = append(where, "r.user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}

	query := `
		SELECT r.id, r.user_id, COALESCE(r.chat_id, ''), r.appointment_id,
			to_char(a.day, 'YYYY-MM-DD'), to_char(a.time, 'HH24:MI')
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
