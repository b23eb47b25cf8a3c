package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with a username or an email address.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	in := map[string]string{"identifier": identifier, "password": password}
	var out AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var out MeResponse
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRole(ctx context.Context, role string) (*RoleResponse, error) {
	var out RoleResponse
	if err := c.call(ctx, http.MethodPut, "/auth/role", map[string]string{"role": role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePersonalInfo(ctx context.Context, in PersonalInfoInput) (*PersonalInfoResponse, error) {
	var out PersonalInfoResponse
	if err := c.call(ctx, http.MethodPut, "/auth/personal-info", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPosts(ctx context.Context, q PageQuery) ([]Post, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	path := "/posts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var out []Post
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost fetches one post with its comments. The server counts it as a view.
func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	var out Post
	if err := c.call(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := c.call(ctx, http.MethodGet, "/posts/user/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	return c.sendPost(ctx, http.MethodPost, "/posts", in)
}

func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (*Post, error) {
	return c.sendPost(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), in)
}

func (c *Client) DeletePost(ctx context.Context, id string) (*DeleteResponse, error) {
	var out DeleteResponse
	if err := c.call(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var out []Comment
	if err := c.call(ctx, http.MethodGet, "/comments/"+url.PathEscape(postID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, postID, text string) (*Comment, error) {
	var out Comment
	path := "/comments/" + url.PathEscape(postID)
	if err := c.call(ctx, http.MethodPost, path, map[string]string{"comment": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) sendPost(ctx context.Context, method, path string, in PostInput) (*Post, error) {
	body, contentType, err := encodePostForm(in)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	var out Post
	if err := decodeResult(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func encodePostForm(in PostInput) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, field := range []struct{ name, value string }{
		{"title", in.Title},
		{"text", in.Text},
		{"category", in.Category},
	} {
		if field.value == "" {
			continue
		}
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("encode form: %w", err)
		}
	}
	if len(in.Image) > 0 {
		name := in.ImageName
		if name == "" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", fmt.Errorf("encode form: %w", err)
		}
		if _, err := part.Write(in.Image); err != nil {
			return nil, "", fmt.Errorf("encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode form: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
