package api

import (
	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
)

// allowLike reports whether the user may toggle another like right now.
// Rejections are counted and logged.
func (s *Server) allowLike(userID string, kind domain.SubjectKind) bool {
	if s.likeLimiter == nil || s.likeLimiter.Allow(userID) {
		return true
	}
	if s.metrics != nil {
		s.metrics.RateLimited(kind)
	}
	s.logger.Warn("Like rate limit exceeded",
		"user_id", userID,
		"subject", kind,
	)
	return false
}

func rateLimitedLike() (*ResultOutput[domain.LikeState], error) {
	return respond(dto.Fail[domain.LikeState](domainerrors.RateLimited("too many like requests, try again shortly")), nil)
}
