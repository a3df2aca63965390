package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/scrybe/scrybe-backend/internal/domain"
)

// v is the package-level singleton validator. Custom registrations must be
// made during init() before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags. Failures come
// back wrapped in domain.ErrBadRequest so the transport maps them to 400.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), domain.ErrBadRequest)
}
