package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/authportal/internal/client/repositories/metadata"
)

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is an http.CookieJar whose cookies for the API origin are
// mirrored into the metadata store under metadata.KeyCookies.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	origin *url.URL
	repo   metadata.Repository
}

// NewPersistentJar creates a jar for apiRoot and restores previously saved
// cookies. A corrupt saved value is ignored.
func NewPersistentJar(ctx context.Context, apiRoot string, repo metadata.Repository) (*PersistentJar, error) {
	origin, err := url.Parse(apiRoot + "/")
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	j := &PersistentJar{jar: jar, origin: origin, repo: repo}

	raw, err := repo.Get(ctx, metadata.KeyCookies)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		var saved []storedCookie
		if json.Unmarshal(raw, &saved) == nil {
			cookies := make([]*http.Cookie, 0, len(saved))
			for _, c := range saved {
				cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
			}
			jar.SetCookies(origin, cookies)
		}
	}

	return j, nil
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar.SetCookies(u, cookies)
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Save writes the cookies currently valid for the API origin. An empty set
// removes the stored entry.
func (j *PersistentJar) Save(ctx context.Context) error {
	cookies := j.Cookies(j.origin)
	if len(cookies) == 0 {
		return j.repo.Delete(ctx, metadata.KeyCookies)
	}

	saved := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, storedCookie{Name: c.Name, Value: c.Value})
	}

	b, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return j.repo.Set(ctx, metadata.KeyCookies, b)
}

// Reset drops all in-memory cookies. The stored copy is left to the caller,
// which deletes it together with the rest of the session.
func (j *PersistentJar) Reset() {
	jar, _ := cookiejar.New(nil)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar = jar
}
