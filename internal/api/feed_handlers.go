package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Feed",
		Description: "Returns the newest posts of every kind, merged into one timeline",
		Tags:        []string{"Feed"},
	}, s.handleGetFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFollowingsFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/following",
		Summary:     "Followings feed",
		Description: "Returns the newest posts written by the given users",
		Tags:        []string{"Feed"},
	}, s.handleGetFollowingsFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/posts",
		Summary:     "User posts",
		Description: "Returns a user's posts, optionally of a single kind",
		Tags:        []string{"Feed"},
	}, s.handleGetUserPosts)
}

// FeedInput contains parameters for the global feed.
type FeedInput struct {
	PageQuery
}

// FollowingsFeedInput contains parameters for the followings feed.
type FollowingsFeedInput struct {
	PageQuery
	UserIDs []string `query:"user_ids" doc:"Followed user IDs, comma separated"`
}

// UserPostsInput contains parameters for a user's posts.
type UserPostsInput struct {
	PageQuery
	ID   string `path:"id" doc:"User ID"`
	Kind string `query:"kind" doc:"Only posts of this kind: review, playlist or discussion"`
}

// FeedOutput is the response of the feed endpoints.
type FeedOutput = ResultOutput[*service.FeedPage]

func (s *Server) handleGetFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	return respond(s.services.Community.GetFeed(ctx, viewerID(ctx), input.params()))
}

func (s *Server) handleGetFollowingsFeed(ctx context.Context, input *FollowingsFeedInput) (*FeedOutput, error) {
	return respond(s.services.Community.GetFollowingsFeed(ctx, viewerID(ctx), input.UserIDs, input.params()))
}

func (s *Server) handleGetUserPosts(ctx context.Context, input *UserPostsInput) (*FeedOutput, error) {
	return respond(s.services.Community.GetUserPosts(ctx, viewerID(ctx), input.ID, domain.PostKind(input.Kind), input.params()))
}
