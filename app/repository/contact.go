package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

const contactColumns = `id, first_name, last_name, email, phone_number, date_of_birth, note, user_id, created_at, updated_at`

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, date_of_birth, note, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.DateOfBirth,
		contact.Note,
		contact.UserID,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	contact.ID = uint64(id)
	return nil
}

// FindByID addresses a contact by (id, owner) jointly. A contact owned by
// another user is indistinguishable from an absent one.
func (r *ContactRepository) FindByID(ctx context.Context, id, userID uint64) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ? AND user_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *ContactRepository) List(ctx context.Context, userID uint64, limit, offset int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *ContactRepository) Update(ctx context.Context, contact *entity.Contact) error {
	query := `
		UPDATE contacts SET
			first_name = ?,
			last_name = ?,
			email = ?,
			phone_number = ?,
			date_of_birth = ?,
			note = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	contact.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.DateOfBirth,
		contact.Note,
		contact.UpdatedAt,
		contact.ID,
		contact.UserID,
	)
	return err
}

func (r *ContactRepository) Delete(ctx context.Context, id, userID uint64) error {
	query := `DELETE FROM contacts WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	return err
}

// Search matches the substring case-insensitively against first name,
// last name and email.
func (r *ContactRepository) Search(ctx context.Context, userID uint64, substring string) ([]*entity.Contact, error) {
	query := `
		SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = ? AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)
	`
	pattern := "%" + substring + "%"
	rows, err := r.db.QueryContext(ctx, query, userID, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// UpcomingBirthdays returns the user's contacts whose birthday falls inside
// [start, end], comparing month and day only, ordered by day of month.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, userID uint64, start, end time.Time) ([]*entity.Contact, error) {
	query := `
		SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = ? AND (
			(MONTH(date_of_birth) = ? AND DAY(date_of_birth) >= ? AND DAY(date_of_birth) <= ?)
			OR (MONTH(date_of_birth) = ? AND DAY(date_of_birth) <= ?)
			OR (MONTH(date_of_birth) = ? AND DAY(date_of_birth) = ?)
		)
		ORDER BY DAY(date_of_birth)
	`
	rows, err := r.db.QueryContext(ctx, query,
		userID,
		int(start.Month()), start.Day(), end.Day(),
		int(end.Month()), end.Day(),
		int(start.Month()), start.Day(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *ContactRepository) scanOne(row *sql.Row) (*entity.Contact, error) {
	contact := &entity.Contact{}
	err := row.Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.PhoneNumber,
		&contact.DateOfBirth,
		&contact.Note,
		&contact.UserID,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *ContactRepository) scanAll(rows *sql.Rows) ([]*entity.Contact, error) {
	contacts := []*entity.Contact{}
	for rows.Next() {
		contact := &entity.Contact{}
		if err := rows.Scan(
			&contact.ID,
			&contact.FirstName,
			&contact.LastName,
			&contact.Email,
			&contact.PhoneNumber,
			&contact.DateOfBirth,
			&contact.Note,
			&contact.UserID,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
