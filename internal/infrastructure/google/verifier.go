package google

import (
	"context"
	"fmt"

	"github.com/scrybe/scrybe-backend/internal/domain"
	"google.golang.org/api/idtoken"
)

// Payload holds the verified claims extracted from a Google ID token.
type Payload struct {
	Sub   string
	Email string
	Name  string
}

// Verifier verifies Google ID tokens against a specific client ID.
type Verifier struct {
	clientID string
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID}
}

// Verify validates the Google ID token signature and audience and returns the
// extracted payload. Returns a domain.ErrUnauthorized-wrapped error if the
// token is invalid.
func (v *Verifier) Verify(ctx context.Context, token string) (*Payload, error) {
	p, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	email, _ := p.Claims["email"].(string)
	name, _ := p.Claims["name"].(string)
	if name == "" {
		name = email
	}
	return &Payload{Sub: p.Subject, Email: email, Name: name}, nil
}
