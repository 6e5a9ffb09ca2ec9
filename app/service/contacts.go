package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

var ErrContactNotFound = errors.New("contact not found")

// birthdayWindowDays is the lookahead for the upcoming-birthdays query.
const birthdayWindowDays = 7

type contactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	FindByID(ctx context.Context, id, userID uint64) (*entity.Contact, error)
	List(ctx context.Context, userID uint64, limit, offset int) ([]*entity.Contact, error)
	Update(ctx context.Context, contact *entity.Contact) error
	Delete(ctx context.Context, id, userID uint64) error
	Search(ctx context.Context, userID uint64, substring string) ([]*entity.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID uint64, start, end time.Time) ([]*entity.Contact, error)
}

type ContactInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
	Note        string
}

type ContactService struct {
	repo contactRepository
	now  func() time.Time
}

type ContactServiceOption func(*ContactService)

func NewContactService(repo contactRepository, opts ...ContactServiceOption) *ContactService {
	svc := &ContactService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) ContactServiceOption {
	return func(s *ContactService) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *ContactService) List(ctx context.Context, userID uint64, limit, offset int) ([]*entity.Contact, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

func (s *ContactService) Get(ctx context.Context, id, userID uint64) (*entity.Contact, error) {
	contact, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

func (s *ContactService) Create(ctx context.Context, userID uint64, input *ContactInput) (*entity.Contact, error) {
	now := s.now()
	contact := &entity.Contact{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		DateOfBirth: input.DateOfBirth,
		Note:        noteValue(input.Note),
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) Update(ctx context.Context, id, userID uint64, input *ContactInput) (*entity.Contact, error) {
	contact, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}

	contact.FirstName = input.FirstName
	contact.LastName = input.LastName
	contact.Email = input.Email
	contact.PhoneNumber = input.PhoneNumber
	contact.DateOfBirth = input.DateOfBirth
	contact.Note = noteValue(input.Note)

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id, userID uint64) error {
	contact, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrContactNotFound
	}
	return s.repo.Delete(ctx, id, userID)
}

func (s *ContactService) Search(ctx context.Context, userID uint64, query string) ([]*entity.Contact, error) {
	return s.repo.Search(ctx, userID, query)
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID uint64) ([]*entity.Contact, error) {
	start := s.now()
	end := start.AddDate(0, 0, birthdayWindowDays)
	return s.repo.UpcomingBirthdays(ctx, userID, start, end)
}

func noteValue(note string) sql.NullString {
	if note == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: note, Valid: true}
}
