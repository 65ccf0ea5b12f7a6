// Package engagement implements like toggling for posts and comments.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// LikeStore persists likes for one kind of subject.
//
// ToggleLike must remove the (subject, user) like row if present or insert it
// if absent, and adjust the subject's like counter, all in one atomic step.
// It returns store.ErrNotFound when the subject does not exist.
type LikeStore interface {
	ToggleLike(ctx context.Context, subjectID, userID string) (domain.LikeState, error)
	// LikedBy returns the subset of subjectIDs the user has liked.
	LikedBy(ctx context.Context, userID string, subjectIDs []string) (map[string]bool, error)
}

// Observer is told about every completed toggle.
type Observer interface {
	LikeToggled(kind domain.SubjectKind, state domain.LikeState)
}

// Toggler flips the like state of one (subject, user) pair.
// Each subject kind gets its own Toggler.
type Toggler struct {
	kind     domain.SubjectKind
	likes    LikeStore
	observer Observer
	logger   *slog.Logger
}

// NewToggler creates a toggler for subjects of the given kind.
func NewToggler(kind domain.SubjectKind, likes LikeStore, observer Observer, logger *slog.Logger) *Toggler {
	return &Toggler{kind: kind, likes: likes, observer: observer, logger: logger}
}

// Kind returns the subject kind this toggler serves.
func (t *Toggler) Kind() domain.SubjectKind {
	return t.kind
}

// Toggle likes the subject if the user has not liked it yet, and unlikes it
// otherwise. Calling Toggle twice restores the original state and count.
func (t *Toggler) Toggle(ctx context.Context, subjectID, userID string) (domain.LikeState, error) {
	state, err := t.likes.ToggleLike(ctx, subjectID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LikeState{}, domainerrors.NotFoundf("%s not found", t.kind)
		}
		return domain.LikeState{}, fmt.Errorf("toggle %s like: %w", t.kind, err)
	}

	if t.observer != nil {
		t.observer.LikeToggled(t.kind, state)
	}
	t.logger.Debug("like toggled",
		"subject", t.kind,
		"subject_id", subjectID,
		"user_id", userID,
		"is_liked", state.IsLiked,
		"likes_count", state.LikesCount,
	)
	return state, nil
}

// IsLiked reports whether the user has liked the subject.
func (t *Toggler) IsLiked(ctx context.Context, subjectID, userID string) (bool, error) {
	liked, err := t.LikedAmong(ctx, []string{subjectID}, userID)
	if err != nil {
		return false, err
	}
	return liked[subjectID], nil
}

// LikedAmong reports, for each of subjectIDs, whether the user has liked it.
// Every requested ID is present in the result.
func (t *Toggler) LikedAmong(ctx context.Context, subjectIDs []string, userID string) (map[string]bool, error) {
	liked, err := t.likes.LikedBy(ctx, userID, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("check %s likes: %w", t.kind, err)
	}
	out := make(map[string]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		out[id] = liked[id]
	}
	return out, nil
}
