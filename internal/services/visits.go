package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Counters are the visit statistics returned by the visit service
type Counters struct {
	Total     int            `json:"total"`
	Unique    int            `json:"unique"`
	Repeat    int            `json:"repeat"`
	Platforms map[string]int `json:"platforms"`
	ok        bool
}

// Format renders the counters for a status line, with placeholders when
// the service could not be reached
func (c Counters) Format() string {
	if !c.ok {
		return fmt.Sprintf("visits %s · unique %s · repeat %s", Placeholder, Placeholder, Placeholder)
	}
	line := fmt.Sprintf("visits %d · unique %d · repeat %d", c.Total, c.Unique, c.Repeat)
	if len(c.Platforms) == 0 {
		return line
	}
	names := make([]string, 0, len(c.Platforms))
	for name := range c.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + strconv.Itoa(c.Platforms[name])
	}
	return line + " (" + strings.Join(parts, ", ") + ")"
}

// Available reports whether the counters came from the service
func (c Counters) Available() bool {
	return c.ok
}

// VisitClient records a visit and reads back the counters
type VisitClient struct {
	url      string
	platform string
	client   *http.Client
}

// NewVisitClient creates a client for url
func NewVisitClient(url, platform string, timeout time.Duration) *VisitClient {
	return &VisitClient{url: url, platform: platform, client: newHTTPClient(timeout)}
}

type visitRequest struct {
	UserID      string `json:"user_id,omitempty"`
	AnonymousID string `json:"anonymous_id,omitempty"`
	Platform    string `json:"platform"`
}

// Record reports a visit. userID may be empty, in which case anonymousID
// identifies the installation. Failures return placeholder counters.
func (c *VisitClient) Record(ctx context.Context, userID, anonymousID string) (Counters, error) {
	if c.url == "" {
		return Counters{}, ErrDisabled
	}
	req := visitRequest{Platform: c.platform}
	if userID != "" {
		req.UserID = userID
	} else {
		req.AnonymousID = anonymousID
	}

	var counters Counters
	if err := postJSON(ctx, c.client, c.url, req, &counters); err != nil {
		return Counters{}, fmt.Errorf("visit: %w", err)
	}
	counters.ok = true
	return counters, nil
}

// AnonymousID returns the installation id stored at path, creating it on
// first use
func AnonymousID(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	id := hex.EncodeToString(raw[:])

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return id, fmt.Errorf("store id: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return id, fmt.Errorf("store id: %w", err)
	}
	return id, nil
}

// DefaultIDPath returns the anonymous id location under the user config dir
func DefaultIDPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "stlvol", "anonymous_id")
}
