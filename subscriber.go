package conecta

import (
	"context"
	"time"
)

// Subscriber represents a registered contact with its accumulated messages.
type Subscriber struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Messages    []string  `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterOutcome reports what RegisterSubscriber did for a registration.
type RegisterOutcome string

const (
	// OutcomeCreated means a new subscriber row was inserted.
	OutcomeCreated RegisterOutcome = "created"
	// OutcomeMerged means the email already existed and the incoming
	// message was appended to the existing row.
	OutcomeMerged RegisterOutcome = "merged"
	// OutcomeUnchanged means the email already existed and the
	// registration carried no message, so nothing was written.
	OutcomeUnchanged RegisterOutcome = "unchanged"
)

// Registration is the input for registering a subscriber.
type Registration struct {
	Name        string
	Email       string
	PhoneNumber string
	Messages    []string
}

// SubscriberUpdate overwrites the mutable contact fields of a subscriber.
// Messages and CreatedAt are never touched by an update.
type SubscriberUpdate struct {
	Name        string
	Email       string
	PhoneNumber string
}

// SubscriberService defines operations for managing subscribers.
type SubscriberService interface {
	// RegisterSubscriber inserts a subscriber, or merges into the existing
	// row when the email is already known. The merge appends the incoming
	// messages and leaves name and phone number untouched; a registration
	// for a known email that carries no message is a no-op. The operation
	// is a single atomic statement, so two concurrent registrations for
	// the same new email cannot both create a row.
	RegisterSubscriber(ctx context.Context, reg Registration) (*Subscriber, RegisterOutcome, error)

	// FindSubscriberByID retrieves a subscriber by ID.
	// Returns ENOTFOUND if no subscriber exists.
	FindSubscriberByID(ctx context.Context, id int64) (*Subscriber, error)

	// FindSubscribers retrieves all subscribers in insertion order.
	FindSubscribers(ctx context.Context) ([]*Subscriber, error)

	// ListEmails returns the email addresses of all subscribers, used to
	// resolve broadcast recipients.
	ListEmails(ctx context.Context) ([]string, error)

	// UpdateSubscriber overwrites name, email and phone number for the
	// subscriber matching id. Returns ENOTFOUND if the ID does not exist
	// and ECONFLICT if the new email collides with another subscriber.
	UpdateSubscriber(ctx context.Context, id int64, upd SubscriberUpdate) (*Subscriber, error)

	// DeleteSubscriber removes the subscriber matching id.
	// Returns ENOTFOUND if the ID does not exist. IDs are never reused.
	DeleteSubscriber(ctx context.Context, id int64) error
}
