// Package events carries engagement events from the operations that cause them
// to the components that keep derived state (recommendation points, trending
// signals, metrics) up to date.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// Type represents the type of an engagement event.
type Type string

const (
	// BookLinked is published for every book newly associated with a playlist or discussion.
	BookLinked Type = "book.linked"
	// BookUnlinked is published for every book removed from a playlist or discussion.
	BookUnlinked Type = "book.unlinked"
	// ReviewAdded is published when a user reviews a book.
	ReviewAdded Type = "review.added"
)

// Event is one engagement with one book.
// GenreIDs holds the genres linked to the book when the event was published.
type Event struct {
	At       time.Time       `json:"at"`
	Type     Type            `json:"type"`
	UserID   string          `json:"user_id"`
	BookID   string          `json:"book_id"`
	PostID   string          `json:"post_id"`
	Source   domain.PostKind `json:"source"`
	GenreIDs []string        `json:"genre_ids"`
}

// Handler reacts to published events.
type Handler interface {
	HandleEvent(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Publisher is what operations depend on to announce engagement.
type Publisher interface {
	Publish(ctx context.Context, evts ...Event) error
}

// Bus dispatches events synchronously to its subscribers, in subscription order.
// Dispatch stops at the first handler error, which is returned to the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers []named
}

type named struct {
	name string
	h    Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h under name. Names appear in dispatch errors.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, named{name: name, h: h})
}

// Publish delivers each event to every subscriber.
func (b *Bus) Publish(ctx context.Context, evts ...Event) error {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, e := range evts {
		if e.At.IsZero() {
			e.At = time.Now().UTC()
		}
		for _, n := range handlers {
			if err := n.h.HandleEvent(ctx, e); err != nil {
				return fmt.Errorf("%s handling %s for book %s: %w", n.name, e.Type, e.BookID, err)
			}
		}
	}
	return nil
}

// Discard is a Publisher that drops every event.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, ...Event) error { return nil }
