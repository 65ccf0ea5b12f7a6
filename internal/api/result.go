package api

import (
	"net/http"

	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// ResultOutput wraps a service result for Huma. Failed results keep their
// envelope body and take the status of their error code.
type ResultOutput[T any] struct {
	Status int
	Body   *dto.Result[T]
}

// respond converts a service call into a handler return. Errors that are not
// part of the envelope surface through huma's error handler.
func respond[T any](res *dto.Result[T], err error) (*ResultOutput[T], error) {
	return respondStatus(res, err, http.StatusOK)
}

// respondCreated is respond with 201 on success.
func respondCreated[T any](res *dto.Result[T], err error) (*ResultOutput[T], error) {
	return respondStatus(res, err, http.StatusCreated)
}

func respondStatus[T any](res *dto.Result[T], err error, okStatus int) (*ResultOutput[T], error) {
	if err != nil {
		return nil, err
	}
	status := okStatus
	if !res.Succeeded {
		status = res.Code().HTTPStatus()
	}
	return &ResultOutput[T]{Status: status, Body: res}, nil
}

// PageQuery is the pagination part of list inputs.
type PageQuery struct {
	Page int `query:"page" minimum:"0" doc:"Page number, starting at 1"`
	Size int `query:"size" minimum:"0" maximum:"100" doc:"Items per page"`
}

func (q PageQuery) params() store.PageParams {
	return store.PageParams{Page: q.Page, Size: q.Size}
}

// IDsRequest is a batch of IDs to add, remove or look up.
type IDsRequest struct {
	IDs []string `json:"ids" minItems:"1" maxItems:"100" doc:"IDs to act on"`
}
