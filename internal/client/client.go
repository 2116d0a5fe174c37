// Пакет client — клиентская часть планировщика: HTTP-доступ к API,
// оптимистичный кэш дня с отложенной записью и локальный офлайн-кэш.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Event — событие в сетевом формате API.
type Event struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Location string  `json:"location"`
	Notes    string  `json:"notes"`
	Hour     float64 `json:"hour"`
	Duration int     `json:"duration"`
	Repeat   string  `json:"repeat"`
	EndDate  string  `json:"endDate,omitempty"`
	Repeated bool    `json:"repeated,omitempty"`
}

// Client — HTTP-клиент API с cookie-сессией.
type Client struct {
	base string
	http *http.Client
}

func New(base string) (*Client, error) {
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("некорректный адрес сервера: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{base: base, http: &http.Client{Jar: jar}}, nil
}

func (c *Client) eventsPath(shared bool) string {
	if shared {
		return "/api/shared-events"
	}
	return "/api/events"
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Code != "" {
			return fmt.Errorf("сервер ответил %d: %s (%s)", resp.StatusCode, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("сервер ответил %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Login открывает сессию; токен приходит в http-only cookie и дальше
// ходит вместе со всеми запросами.
func (c *Client) Login(ctx context.Context, username, password string) error {
	creds := map[string]string{"username": username, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/api/login", creds, nil)
}

// Signup регистрирует пользователя и сразу открывает сессию.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	creds := map[string]string{"username": username, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/api/signup", creds, nil)
}

// LoadDay загружает развёрнутый день с сервера.
func (c *Client) LoadDay(ctx context.Context, date string, shared bool) (map[string]Event, error) {
	var events map[string]Event
	path := c.eventsPath(shared) + "?date=" + url.QueryEscape(date)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveDay отправляет на сервер полный набор событий дня.
func (c *Client) SaveDay(ctx context.Context, date string, events map[string]Event, shared bool) error {
	path := c.eventsPath(shared) + "?date=" + url.QueryEscape(date)
	return c.doJSON(ctx, http.MethodPost, path, events, nil)
}
