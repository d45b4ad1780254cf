package postgres

import (
	"context"
	"errors"

	"github.com/connectpalestine/conecta"
	"github.com/jackc/pgx/v5"
)

// Compile-time check that SubscriberService implements conecta.SubscriberService.
var _ conecta.SubscriberService = (*SubscriberService)(nil)

// SubscriberService implements conecta.SubscriberService using PostgreSQL.
type SubscriberService struct {
	db *DB
}

// registerQuery inserts a subscriber or merges into the existing row in a
// single statement, so a concurrent duplicate registration can never create
// a second row for the same email. The merge appends the incoming messages
// and deliberately leaves name and phone number alone; when no message was
// supplied the WHERE clause suppresses the update entirely and the statement
// returns no row. xmax = 0 distinguishes a fresh insert from a merge.
const registerQuery = `
	INSERT INTO subscribers (email, name, phone_number, messages)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (email) DO UPDATE
	SET messages = subscribers.messages || excluded.messages
	WHERE cardinality(excluded.messages) > 0
	RETURNING id, email, name, phone_number, messages, created_at, (xmax = 0)
`

func (s *SubscriberService) RegisterSubscriber(ctx context.Context, reg conecta.Registration) (*conecta.Subscriber, conecta.RegisterOutcome, error) {
	messages := reg.Messages
	if messages == nil {
		messages = []string{}
	}

	var (
		sub      conecta.Subscriber
		inserted bool
	)
	err := s.db.pool.QueryRow(ctx, registerQuery,
		reg.Email, reg.Name, reg.PhoneNumber, messages,
	).Scan(&sub.ID, &sub.Email, &sub.Name, &sub.PhoneNumber, &sub.Messages, &sub.CreatedAt, &inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		// Email exists and no message arrived: nothing to write.
		existing, err := s.findSubscriberByEmail(ctx, reg.Email)
		if err != nil {
			return nil, "", err
		}
		return existing, conecta.OutcomeUnchanged, nil
	}
	if err != nil {
		return nil, "", conecta.Internal("Failed to register subscriber", err)
	}

	if inserted {
		return &sub, conecta.OutcomeCreated, nil
	}
	return &sub, conecta.OutcomeMerged, nil
}

func (s *SubscriberService) FindSubscriberByID(ctx context.Context, id int64) (*conecta.Subscriber, error) {
	var sub conecta.Subscriber
	err := s.db.pool.QueryRow(ctx, `
		SELECT id, email, name, phone_number, messages, created_at
		FROM subscribers WHERE id = $1
	`, id).Scan(&sub.ID, &sub.Email, &sub.Name, &sub.PhoneNumber, &sub.Messages, &sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, conecta.NotFound("Subscriber not found")
	}
	if err != nil {
		return nil, conecta.Internal("Failed to fetch subscriber", err)
	}
	return &sub, nil
}

func (s *SubscriberService) findSubscriberByEmail(ctx context.Context, email string) (*conecta.Subscriber, error) {
	var sub conecta.Subscriber
	err := s.db.pool.QueryRow(ctx, `
		SELECT id, email, name, phone_number, messages, created_at
		FROM subscribers WHERE email = $1
	`, email).Scan(&sub.ID, &sub.Email, &sub.Name, &sub.PhoneNumber, &sub.Messages, &sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, conecta.NotFound("Subscriber not found")
	}
	if err != nil {
		return nil, conecta.Internal("Failed to fetch subscriber", err)
	}
	return &sub, nil
}

func (s *SubscriberService) FindSubscribers(ctx context.Context) ([]*conecta.Subscriber, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT id, email, name, phone_number, messages, created_at
		FROM subscribers ORDER BY id
	`)
	if err != nil {
		return nil, conecta.Internal("Failed to list subscribers", err)
	}
	defer rows.Close()

	subs := []*conecta.Subscriber{}
	for rows.Next() {
		var sub conecta.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Name, &sub.PhoneNumber, &sub.Messages, &sub.CreatedAt); err != nil {
			return nil, conecta.Internal("Failed to scan subscriber", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, conecta.Internal("Failed to list subscribers", err)
	}
	return subs, nil
}

func (s *SubscriberService) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT email FROM subscribers ORDER BY id`)
	if err != nil {
		return nil, conecta.Internal("Failed to list subscriber emails", err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, conecta.Internal("Failed to scan subscriber email", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, conecta.Internal("Failed to list subscriber emails", err)
	}
	return emails, nil
}

func (s *SubscriberService) UpdateSubscriber(ctx context.Context, id int64, upd conecta.SubscriberUpdate) (*conecta.Subscriber, error) {
	var sub conecta.Subscriber
	err := s.db.pool.QueryRow(ctx, `
		UPDATE subscribers
		SET name = $2, email = $3, phone_number = $4
		WHERE id = $1
		RETURNING id, email, name, phone_number, messages, created_at
	`, id, upd.Name, upd.Email, upd.PhoneNumber).Scan(
		&sub.ID, &sub.Email, &sub.Name, &sub.PhoneNumber, &sub.Messages, &sub.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, conecta.NotFound("Subscriber not found")
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conecta.Conflict("Subscriber with this email already exists")
		}
		return nil, conecta.Internal("Failed to update subscriber", err)
	}
	return &sub, nil
}

func (s *SubscriberService) DeleteSubscriber(ctx context.Context, id int64) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return conecta.Internal("Failed to delete subscriber", err)
	}
	if tag.RowsAffected() == 0 {
		return conecta.NotFound("Subscriber not found")
	}
	return nil
}
