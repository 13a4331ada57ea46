package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

func Get(ctx context.Context, r Requester, path string, query url.Values, out any) error {
	return r.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func Post(ctx context.Context, r Requester, path string, body, out any) error {
	return r.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func Put(ctx context.Context, r Requester, path string, body, out any) error {
	return r.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func Delete(ctx context.Context, r Requester, path string, query url.Values) error {
	return r.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query}, nil)
}
