package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrExpired = errors.New("token has expired")

type Payload struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

func NewPayload(userID uuid.UUID, email string, role string, duration time.Duration) (*Payload, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user id cannot be empty")
	}
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if duration <= 0 {
		return nil, errors.New("duration must be positive")
	}

	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now().UTC()
	return &Payload{
		ID:        tokenID,
		UserID:    userID,
		Email:     email,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiredAt: issuedAt.Add(duration),
	}, nil
}

func (payload *Payload) Valid() error {
	if time.Now().UTC().After(payload.ExpiredAt) {
		return ErrExpired
	}
	return nil
}

func (p *Payload) String() string {
	return fmt.Sprintf("ID: %s, UserID: %s, Email: %s, Role: %s, ExpiredAt: %s", p.ID, p.UserID, p.Email, p.Role, p.ExpiredAt)
}
