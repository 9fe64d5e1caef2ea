// Package session is the client for the cookie-session authentication API.
// Every operation yields a Result instead of a Go error: either a user or an
// error message.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"animehub/pkg/models"
)

type SignupData struct {
	Username             string `json:"username"`
	Email                string `json:"email,omitempty"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
	AvatarURL            string `json:"avatar_url,omitempty"`
}

type LoginData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Result is {user} on success or {error} on failure. Logout succeeds with neither.
type Result struct {
	User  *models.User `json:"user,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (r Result) OK() bool { return r.Error == "" }

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a client whose cookie jar holds the session cookie
// between calls.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid session API URL %q", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

func (c *Client) Signup(ctx context.Context, data SignupData) Result {
	if strings.TrimSpace(data.Username) == "" || data.Password == "" {
		return Result{Error: "username and password are required"}
	}
	return c.do(ctx, http.MethodPost, "/signup", data)
}

func (c *Client) Login(ctx context.Context, data LoginData) Result {
	if strings.TrimSpace(data.Username) == "" || data.Password == "" {
		return Result{Error: "username and password are required"}
	}
	return c.do(ctx, http.MethodPost, "/login", data)
}

// Logout ends the session server-side and drops it locally.
func (c *Client) Logout(ctx context.Context) Result {
	res := c.do(ctx, http.MethodDelete, "/logout", nil)
	if res.OK() {
		res.User = nil
		c.SetCookies(nil)
	}
	return res
}

func (c *Client) CheckSession(ctx context.Context) Result {
	return c.do(ctx, http.MethodGet, "/check_session", nil)
}

// Cookies returns the cookies held for the API, for persisting a session.
func (c *Client) Cookies() []*http.Cookie {
	return c.httpClient.Jar.Cookies(c.baseURL)
}

// SetCookies restores a persisted session. nil clears it.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	if cookies == nil {
		if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
			c.httpClient.Jar = jar
		}
		return
	}
	c.httpClient.Jar.SetCookies(c.baseURL, cookies)
}

func (c *Client) do(ctx context.Context, method, path string, body any) Result {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{Error: "failed to encode request: " + err.Error()}
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return Result{Error: "failed to build request: " + err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Error: "session service unreachable: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{Error: "failed to read response: " + err.Error()}
	}
	return parse(resp.StatusCode, raw)
}

// parse accepts {"user": {...}}, a bare user object, {"error": "..."} or
// {"errors": [...]}.
func parse(status int, raw []byte) Result {
	raw = bytes.TrimSpace(raw)
	var envelope struct {
		User   *models.User    `json:"user"`
		Error  string          `json:"error"`
		Errors json.RawMessage `json:"errors"`
	}
	decoded := len(raw) > 0 && json.Unmarshal(raw, &envelope) == nil

	if status < 200 || status >= 300 {
		if decoded {
			if envelope.Error != "" {
				return Result{Error: envelope.Error}
			}
			if msg := joinErrors(envelope.Errors); msg != "" {
				return Result{Error: msg}
			}
		}
		return Result{Error: fmt.Sprintf("request failed with status: %d %s", status, http.StatusText(status))}
	}

	if len(raw) == 0 {
		return Result{}
	}
	if !decoded {
		return Result{Error: "unexpected response from session service"}
	}
	if envelope.Error != "" {
		return Result{Error: envelope.Error}
	}
	if envelope.User != nil {
		return Result{User: envelope.User}
	}
	var user models.User
	if json.Unmarshal(raw, &user) == nil && (user.ID != "" || user.Username != "") {
		return Result{User: &user}
	}
	return Result{}
}

// joinErrors flattens an errors member that is a string list or a field map.
func joinErrors(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, "; ")
	}
	var byField map[string][]string
	if json.Unmarshal(raw, &byField) == nil {
		var parts []string
		for field, msgs := range byField {
			for _, m := range msgs {
				parts = append(parts, field+" "+m)
			}
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return single
	}
	return ""
}
