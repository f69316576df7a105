// Package revalidate notifies the frontend that a page's cached data is
// stale. Calls are fire-and-forget; a lost notification means a stale
// page until the next revalidation, never an inconsistent database.
package revalidate

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
)

// Revalidator invalidates the cache entry for a path.
type Revalidator interface {
	Revalidate(path string)
}

// Webhook POSTs revalidation requests to the frontend's revalidate
// endpoint (REVALIDATE_URL).
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook() *Webhook {
	return &Webhook{
		url: os.Getenv("REVALIDATE_URL"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (w *Webhook) Revalidate(path string) {
	if w.url == "" {
		return
	}

	go func() {
		body, err := json.Marshal(map[string]string{"path": path})
		if err != nil {
			return
		}

		resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("revalidate: failed to notify for %s: %v", path, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("revalidate: unexpected status %d for %s", resp.StatusCode, path)
		}
	}()
}

// Noop discards revalidation requests. Used in tests and when no
// frontend is configured.
type Noop struct{}

func (Noop) Revalidate(string) {}
