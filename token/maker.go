package token

import (
	"time"

	"github.com/google/uuid"
)

// Maker creates and verifies access tokens. The rest of the app only sees
// this interface, so the PASETO implementation can be swapped out.
type Maker interface {
	CreateToken(userID uuid.UUID, email string, role string, duration time.Duration) (string, *Payload, error)

	VerifyToken(token string) (*Payload, error)
}
