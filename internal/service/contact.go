package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

// ContactInput is the newsletter subscription form.
type ContactInput struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

// ContactService stores newsletter subscriptions.
type ContactService struct {
	Contacts ContactStore
	now      func() time.Time
}

// NewContactService returns a ContactService backed by contacts.
func NewContactService(contacts ContactStore) *ContactService {
	return &ContactService{Contacts: contacts, now: time.Now}
}

// Subscribe validates and stores an address.
func (s *ContactService) Subscribe(ctx context.Context, in ContactInput) (*model.Contact, error) {
	in.Email = strings.TrimSpace(in.Email)
	if verr := validation.ValidateStruct(in); verr != nil {
		metrics.RecordContact("invalid")
		return nil, verr
	}
	c := &model.Contact{Email: in.Email, CreatedAt: s.now().UTC()}
	if err := s.Contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	metrics.RecordContact("created")
	return c, nil
}
