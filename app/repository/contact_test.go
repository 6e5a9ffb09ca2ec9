package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertContactQuery    = `(?s)INSERT INTO contacts \(first_name, last_name, email, phone_number, date_of_birth, note, user_id, created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?\)`
	findContactQuery      = `(?s)SELECT id, first_name, last_name, email, phone_number, date_of_birth, note, user_id, created_at, updated_at FROM contacts WHERE id = \? AND user_id = \?`
	listContactsQuery     = `(?s)SELECT id, first_name, last_name, email, phone_number, date_of_birth, note, user_id, created_at, updated_at FROM contacts WHERE user_id = \? ORDER BY id LIMIT \? OFFSET \?`
	updateContactQuery    = `(?s)UPDATE contacts SET\s+first_name = \?,\s+last_name = \?,\s+email = \?,\s+phone_number = \?,\s+date_of_birth = \?,\s+note = \?,\s+updated_at = \?\s+WHERE id = \? AND user_id = \?`
	deleteContactQuery    = `(?s)DELETE FROM contacts WHERE id = \? AND user_id = \?`
	searchContactsQuery   = `(?s)SELECT id, first_name, last_name, email, phone_number, date_of_birth, note, user_id, created_at, updated_at FROM contacts\s+WHERE user_id = \? AND \(first_name LIKE \? OR last_name LIKE \? OR email LIKE \?\)`
	upcomingBirthdayQuery = `(?s)SELECT id, first_name, last_name, email, phone_number, date_of_birth, note, user_id, created_at, updated_at FROM contacts\s+WHERE user_id = \? AND \(\s+\(MONTH\(date_of_birth\) = \? AND DAY\(date_of_birth\) >= \? AND DAY\(date_of_birth\) <= \?\)\s+OR \(MONTH\(date_of_birth\) = \? AND DAY\(date_of_birth\) <= \?\)\s+OR \(MONTH\(date_of_birth\) = \? AND DAY\(date_of_birth\) = \?\)\s+\)\s+ORDER BY DAY\(date_of_birth\)`
)

var contactColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone_number",
	"date_of_birth",
	"note",
	"user_id",
	"created_at",
	"updated_at",
}

func addContactRow(rows *sqlmock.Rows, id uint64, now time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id,
		"Ada",
		"Lovelace",
		"ada@example.com",
		"+1234567",
		time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC),
		sql.NullString{Valid: false},
		uint64(7),
		now,
		now,
	)
}

func TestContactRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)
	now := time.Now()
	contact := &entity.Contact{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+1234567",
		DateOfBirth: time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC),
		UserID:      7,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(insertContactQuery).
		WithArgs(
			contact.FirstName,
			contact.LastName,
			contact.Email,
			contact.PhoneNumber,
			contact.DateOfBirth,
			contact.Note,
			contact.UserID,
			contact.CreatedAt,
			contact.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(3, 1))

	if err := repo.Create(context.Background(), contact); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if contact.ID != 3 {
		t.Fatalf("expected ID 3, got %d", contact.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_FindByID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)
	now := time.Now()

	mock.ExpectQuery(findContactQuery).
		WithArgs(uint64(3), uint64(7)).
		WillReturnRows(addContactRow(sqlmock.NewRows(contactColumns), 3, now))

	contact, err := repo.FindByID(context.Background(), 3, 7)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if contact == nil || contact.ID != 3 || contact.UserID != 7 {
		t.Fatalf("unexpected contact: %+v", contact)
	}

	// Wrong owner reads as absent.
	mock.ExpectQuery(findContactQuery).
		WithArgs(uint64(3), uint64(8)).
		WillReturnError(sql.ErrNoRows)

	contact, err = repo.FindByID(context.Background(), 3, 8)
	if err != nil {
		t.Fatalf("expected nil error for foreign owner, got %v", err)
	}
	if contact != nil {
		t.Fatalf("expected nil contact for foreign owner, got %+v", contact)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_List(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(contactColumns)
	addContactRow(rows, 1, now)
	addContactRow(rows, 2, now)

	mock.ExpectQuery(listContactsQuery).
		WithArgs(uint64(7), 10, 0).
		WillReturnRows(rows)

	contacts, err := repo.List(context.Background(), 7, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_List_Empty(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)

	mock.ExpectQuery(listContactsQuery).
		WithArgs(uint64(7), 10, 0).
		WillReturnRows(sqlmock.NewRows(contactColumns))

	contacts, err := repo.List(context.Background(), 7, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if contacts == nil {
		t.Fatal("empty result must be a non-nil slice")
	}
	if len(contacts) != 0 {
		t.Fatalf("expected no contacts, got %d", len(contacts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_Update(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)
	contact := &entity.Contact{
		ID:          3,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+1234567",
		DateOfBirth: time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC),
		Note:        sql.NullString{String: "colleague", Valid: true},
		UserID:      7,
	}

	mock.ExpectExec(updateContactQuery).
		WithArgs(
			contact.FirstName,
			contact.LastName,
			contact.Email,
			contact.PhoneNumber,
			contact.DateOfBirth,
			contact.Note,
			sqlmock.AnyArg(),
			contact.ID,
			contact.UserID,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), contact); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_Delete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)

	mock.ExpectExec(deleteContactQuery).
		WithArgs(uint64(3), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 3, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_Search(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)
	now := time.Now()

	mock.ExpectQuery(searchContactsQuery).
		WithArgs(uint64(7), "%ada%", "%ada%", "%ada%").
		WillReturnRows(addContactRow(sqlmock.NewRows(contactColumns), 3, now))

	contacts, err := repo.Search(context.Background(), 7, "ada")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_UpcomingBirthdays(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewContactRepository(db)
	now := time.Now()
	start := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	mock.ExpectQuery(upcomingBirthdayQuery).
		WithArgs(
			uint64(7),
			12, 28, 4,
			1, 4,
			12, 28,
		).
		WillReturnRows(addContactRow(sqlmock.NewRows(contactColumns), 3, now))

	contacts, err := repo.UpcomingBirthdays(context.Background(), 7, start, end)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
