// internal/words/datamuse.go
//
// HTTP client for the Datamuse words API:
//   GET {base}/words?sp={spelling}&max={n}  →  [{"word":"cat","score":123}, ...]
//
// Transient failures (network errors, 429, 5xx) are retried with
// exponential backoff; other statuses fail immediately. The caller's
// context bounds the whole exchange including retries.

package words

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

const DefaultDatamuseURL = "https://api.datamuse.com"

// Datamuse is a Lookup backed by api.datamuse.com.
type Datamuse struct {
	BaseURL  string
	Client   *http.Client
	Attempts uint          // total tries, default 3
	Delay    time.Duration // first backoff step, default 100ms
}

// NewDatamuse returns a client for baseURL (DefaultDatamuseURL if empty).
func NewDatamuse(baseURL string, attempts uint) *Datamuse {
	if baseURL == "" {
		baseURL = DefaultDatamuseURL
	}
	return &Datamuse{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: 5 * time.Second},
		Attempts: attempts,
	}
}

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("datamuse: status %d", e.Code) }

// Lookup queries the words endpoint for exact spellings, retrying
// transient failures. A non-positive max means 1.
func (d *Datamuse) Lookup(ctx context.Context, spelling string, max int) ([]Candidate, error) {
	if max <= 0 {
		max = 1
	}
	q := url.Values{}
	q.Set("sp", strings.ToLower(spelling))
	q.Set("max", strconv.Itoa(max))
	endpoint := d.BaseURL + "/words?" + q.Encode()

	var out []Candidate
	err := retry.Do(
		func() error {
			out = nil
			return d.fetch(ctx, endpoint, &out)
		},
		retry.Context(ctx),
		retry.Attempts(d.attempts()),
		retry.Delay(d.delay()),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("attempt", n+1).Str("spelling", spelling).Msg("datamuse retry")
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (d *Datamuse) fetch(ctx context.Context, endpoint string, out *[]Candidate) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := d.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &StatusError{Code: resp.StatusCode}
	default:
		return retry.Unrecoverable(&StatusError{Code: resp.StatusCode})
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("datamuse: decode: %w", err))
	}
	return nil
}

func (d *Datamuse) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

func (d *Datamuse) attempts() uint {
	if d.Attempts == 0 {
		return 3
	}
	return d.Attempts
}

func (d *Datamuse) delay() time.Duration {
	if d.Delay <= 0 {
		return 100 * time.Millisecond
	}
	return d.Delay
}
