// Package entreprise registers companies and serves them back over the v1 API.
package entreprise

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome reported by a Store after a registration attempt.
type Result int

const (
	// ResultUnknown covers any outcome the store does not recognise.
	ResultUnknown Result = iota
	// ResultCreated means the row was inserted.
	ResultCreated
	// ResultFailed means the insert was attempted and did not succeed.
	ResultFailed
)

// ResultFromCode maps the legacy integer codes (1 created, 2 failed).
func ResultFromCode(code int) Result {
	switch code {
	case 1:
		return ResultCreated
	case 2:
		return ResultFailed
	default:
		return ResultUnknown
	}
}

func (r Result) String() string {
	switch r {
	case ResultCreated:
		return "created"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Response messages kept byte-for-byte for existing clients.
const (
	MessageRegistered     = "Entreprise registered successfully"
	MessageFailed         = "Some error occurred please try again"
	MessageMissingFields  = "Required fields are missing"
	MessageInvalidRequest = "Invalid Request"
	MessageNotFound       = "Entreprise not found"
)

var (
	ErrInvalidMethod = errors.New("entreprise: invalid request method")
	ErrMissingField  = errors.New("entreprise: required field missing")
	ErrPersistence   = errors.New("entreprise: persistence failure")
	ErrUnspecified   = errors.New("entreprise: unspecified store result")
)

// Entreprise is a registered company row.
type Entreprise struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationRequest is the bound POST form.
type RegistrationRequest struct {
	Name string `validate:"required"`
}

// Page is one slice of the entreprise listing.
type Page struct {
	Entreprises []Entreprise `json:"entreprises"`
	Total       int          `json:"total"`
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
}

// RegisteredEvent is emitted once per created entreprise.
type RegisteredEvent struct {
	EventID      uuid.UUID
	EntrepriseID int64
	Name         string
	RequestID    string
	RegisteredAt time.Time
}
