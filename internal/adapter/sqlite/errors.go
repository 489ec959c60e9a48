package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lexloop/vocabtutor-backend/internal/domain"
)

// mapError converts database/sql and SQLite errors to domain errors.
// The modernc driver exposes constraint failures only through the error
// text, so detection is by message.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
