package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

func (s *Server) registerPlaylistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createPlaylist",
		Method:      http.MethodPost,
		Path:        "/api/v1/playlists",
		Summary:     "Create playlist",
		Description: "Creates a playlist. Each initial book counts as engagement with its genres",
		Tags:        []string{"Playlists"},
	}, s.handleCreatePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlaylist",
		Method:      http.MethodGet,
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Get playlist",
		Tags:        []string{"Playlists"},
	}, s.handleGetPlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePlaylist",
		Method:      http.MethodPatch,
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Update playlist",
		Description: "Updates playlist metadata. Books are changed through the books endpoints",
		Tags:        []string{"Playlists"},
	}, s.handleUpdatePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBooksToPlaylist",
		Method:      http.MethodPost,
		Path:        "/api/v1/playlists/{id}/books",
		Summary:     "Add books to playlist",
		Description: "Adds the books not already in the playlist",
		Tags:        []string{"Playlists"},
	}, s.handleAddBooksToPlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBooksFromPlaylist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/playlists/{id}/books",
		Summary:     "Remove books from playlist",
		Description: "Removes the books currently in the playlist",
		Tags:        []string{"Playlists"},
	}, s.handleRemoveBooksFromPlaylist)
}

// CreatePlaylistInput wraps the create playlist request.
type CreatePlaylistInput struct {
	Body struct {
		Title       string   `json:"title" maxLength:"200" doc:"Playlist title"`
		Description string   `json:"description,omitempty" maxLength:"2000" doc:"Playlist description"`
		BookIDs     []string `json:"book_ids,omitempty" maxItems:"100" doc:"Initial books"`
	}
}

// UpdatePlaylistInput wraps the update playlist request.
type UpdatePlaylistInput struct {
	ID   string `path:"id" doc:"Playlist ID"`
	Body struct {
		Title       *string `json:"title,omitempty" maxLength:"200" doc:"New title"`
		Description *string `json:"description,omitempty" maxLength:"2000" doc:"New description"`
	}
}

// PostIDInput identifies a post.
type PostIDInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// PostBooksInput adds or removes books on a playlist or discussion.
type PostBooksInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body IDsRequest
}

func (s *Server) handleCreatePlaylist(ctx context.Context, input *CreatePlaylistInput) (*ResultOutput[dto.PlaylistView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respondCreated(s.services.Community.CreatePlaylist(ctx, userID, service.CreatePlaylistRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		BookIDs:     input.Body.BookIDs,
	}))
}

func (s *Server) handleGetPlaylist(ctx context.Context, input *PostIDInput) (*ResultOutput[dto.PlaylistView], error) {
	return respond(s.services.Community.GetPlaylist(ctx, input.ID))
}

func (s *Server) handleUpdatePlaylist(ctx context.Context, input *UpdatePlaylistInput) (*ResultOutput[dto.PlaylistView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.UpdatePlaylist(ctx, userID, input.ID, service.UpdatePlaylistRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
	}))
}

func (s *Server) handleAddBooksToPlaylist(ctx context.Context, input *PostBooksInput) (*ResultOutput[dto.PlaylistView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.AddBooksToPlaylist(ctx, userID, input.ID, input.Body.IDs))
}

func (s *Server) handleRemoveBooksFromPlaylist(ctx context.Context, input *PostBooksInput) (*ResultOutput[dto.PlaylistView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.RemoveBooksFromPlaylist(ctx, userID, input.ID, input.Body.IDs))
}
