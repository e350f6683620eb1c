// Package remote содержит HTTP-клиент удаленного API заметок.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/ports/remote"
	"notasapp/pkg/logger"
)

// AuthHeader - заголовок с токеном пользователя.
const AuthHeader = "x-auth-token"

const (
	ErrMarshalBody   = "failed to marshal request body"
	ErrCreateRequest = "failed to create request"
	ErrDoRequest     = "failed to make request"
	ErrReadBody      = "failed to read response body"
	ErrDecodeBody    = "failed to decode response body"

	logRequestFailed = "remote request failed"
)

// Client обращается к REST API заметок.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент с таймаутом на каждый запрос.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, body, out interface{}) error {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("endpoint", endpoint))

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMarshalBody, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCreateRequest, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(AuthHeader, token)
	}
	if id, ok := logger.GetRequestID(ctx); ok {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug(ctx, logRequestFailed, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDoRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrReadBody, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &remote.APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			if eb.Error != "" {
				apiErr.Message = eb.Error
			} else if eb.Message != "" {
				apiErr.Message = eb.Message
			}
		}
		log.Debug(ctx, logRequestFailed, zap.Int("status", resp.StatusCode))
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: %w", ErrDecodeBody, err)
	}
	return nil
}

// Health проверяет доступность API.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", "", nil, nil)
}

// Login аутентифицирует пользователя.
func (c *Client) Login(ctx context.Context, email, password string) (remote.AuthResult, error) {
	var res remote.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	return res, err
}

// Register регистрирует пользователя.
func (c *Client) Register(ctx context.Context, name, email, password string) (remote.AuthResult, error) {
	var res remote.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/users/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &res)
	return res, err
}

// Me возвращает профиль владельца токена.
func (c *Client) Me(ctx context.Context, token string) (entities.User, error) {
	var user entities.User
	err := c.do(ctx, http.MethodGet, "/api/users/me", token, nil, &user)
	return user, err
}

// ListNotes возвращает все заметки пользователя.
func (c *Client) ListNotes(ctx context.Context, token string) ([]entities.Note, error) {
	var notes []entities.Note
	err := c.do(ctx, http.MethodGet, "/api/notes", token, nil, &notes)
	return notes, err
}

// CreateNote создает заметку и возвращает ее с серверным id.
func (c *Client) CreateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	var saved entities.Note
	err := c.do(ctx, http.MethodPost, "/api/notes", token, note, &saved)
	return saved, err
}

// UpdateNote заменяет изменяемые поля заметки.
func (c *Client) UpdateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	var saved entities.Note
	err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(note.ID), token, note, &saved)
	return saved, err
}

// DeleteNote удаляет заметку.
func (c *Client) DeleteNote(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), token, nil, nil)
}

type syncNotesRequest struct {
	Notes []entities.Note `json:"notes"`
}

type syncNotesResponse struct {
	AllNotes []entities.Note `json:"allNotes"`
}

// SyncNotes отправляет пакет заметок и возвращает состояние сервера.
func (c *Client) SyncNotes(ctx context.Context, token string, notes []entities.Note) ([]entities.Note, error) {
	if notes == nil {
		notes = []entities.Note{}
	}
	var res syncNotesResponse
	err := c.do(ctx, http.MethodPost, "/api/notes/sync", token, syncNotesRequest{Notes: notes}, &res)
	return res.AllNotes, err
}

// ListCategories возвращает все категории пользователя.
func (c *Client) ListCategories(ctx context.Context, token string) ([]entities.Category, error) {
	var cats []entities.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", token, nil, &cats)
	return cats, err
}

// CreateCategory создает категорию.
func (c *Client) CreateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error) {
	var saved entities.Category
	err := c.do(ctx, http.MethodPost, "/api/categories", token, cat, &saved)
	return saved, err
}

// UpdateCategory заменяет категорию.
func (c *Client) UpdateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error) {
	var saved entities.Category
	err := c.do(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(cat.ID), token, cat, &saved)
	return saved, err
}

// DeleteCategory удаляет категорию.
func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), token, nil, nil)
}

type syncCategoriesRequest struct {
	Categories []entities.Category `json:"categories"`
}

type syncCategoriesResponse struct {
	AllCategories []entities.Category `json:"allCategories"`
}

// SyncCategories отправляет пакет категорий.
func (c *Client) SyncCategories(ctx context.Context, token string, cats []entities.Category) ([]entities.Category, error) {
	if cats == nil {
		cats = []entities.Category{}
	}
	var res syncCategoriesResponse
	err := c.do(ctx, http.MethodPost, "/api/categories/sync", token, syncCategoriesRequest{Categories: cats}, &res)
	return res.AllCategories, err
}

var _ remote.Remote = (*Client)(nil)
