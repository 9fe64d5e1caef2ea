package authentication

// The session cookie is kept in the OS keyring, keyed by session API URL, so
// consecutive CLI runs share one login.
import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/zalando/go-keyring"
)

const serviceName = "animehub-cli"

// ErrNoSession is returned when nothing is stored for the API.
var ErrNoSession = errors.New("no stored session")

type StoredCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

type StoredSession struct {
	Username string         `json:"username"`
	Cookies  []StoredCookie `json:"cookies"`
	SavedAt  int64          `json:"saved_at"`
}

func StoreSession(apiURL string, sess *StoredSession) error {
	sess.SavedAt = time.Now().Unix()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, apiURL, string(data))
}

func GetSession(apiURL string) (*StoredSession, error) {
	value, err := keyring.Get(serviceName, apiURL)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var sess StoredSession
	if err := json.Unmarshal([]byte(value), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes the stored session; a missing entry is not an error.
func DeleteSession(apiURL string) error {
	err := keyring.Delete(serviceName, apiURL)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// FromHTTP copies cookies from a jar into their stored form.
func FromHTTP(cookies []*http.Cookie) []StoredCookie {
	out := make([]StoredCookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return out
}

// HTTPCookies rebuilds the jar cookies, skipping expired ones.
func (s *StoredSession) HTTPCookies() []*http.Cookie {
	now := time.Now()
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return out
}
