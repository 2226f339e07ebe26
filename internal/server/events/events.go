// Package events publishes authentication events (registrations, logins,
// token rotations, logouts) for downstream consumers.
package events

import (
	"context"
	"time"
)

type Type string

const (
	UserRegistered  Type = "user_registered"
	UserLoggedIn    Type = "user_logged_in"
	TokensRefreshed Type = "tokens_refreshed"
	LoggedOut       Type = "logged_out"
)

// Event never carries credentials or tokens.
type Event struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
