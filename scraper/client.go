package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/poiesic/saarthi/core"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public verse API.
	DefaultBaseURL = "https://vedicscriptures.github.io"

	// DefaultRequestsPerSecond paces requests to the API.
	DefaultRequestsPerSecond = 5.0

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 5 * time.Second

	// GitaChapters is the number of chapters in the Bhagavad Gita.
	GitaChapters = 18
)

// slokResponse is the subset of the API payload we use. The English
// translation is Swami Sivananda's.
type slokResponse struct {
	Slok string `json:"slok"`
	Siva struct {
		Et string `json:"et"`
	} `json:"siva"`
}

// Client fetches verses from the API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests.
// Default is an http.Client with DefaultTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return ErrHTTPClientRequired
		}
		c.http = client
		return nil
	}
}

// WithRateLimit sets the sustained request rate and burst size.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) error {
		if requestsPerSecond <= 0 {
			return ErrInvalidRateLimit
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates an API client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "scraper")
	return c, nil
}

// FetchVerse fetches one verse. A non-200 response, or a payload without
// Sanskrit or translation, yields ErrVerseNotFound.
func (c *Client) FetchVerse(ctx context.Context, chapter, verse int) (core.VerseRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return core.VerseRecord{}, err
	}

	url := fmt.Sprintf("%s/slok/%d/%d/", c.baseURL, chapter, verse)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.VerseRecord{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return core.VerseRecord{}, fmt.Errorf("fetch %d.%d: %w", chapter, verse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.VerseRecord{}, fmt.Errorf("%w: %d.%d (status %d)", ErrVerseNotFound, chapter, verse, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.VerseRecord{}, fmt.Errorf("read %d.%d: %w", chapter, verse, err)
	}
	var payload slokResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return core.VerseRecord{}, fmt.Errorf("decode %d.%d: %w", chapter, verse, err)
	}

	record := core.VerseRecord{
		Source:      core.SourceGita,
		Chapter:     strconv.Itoa(chapter),
		Verse:       strconv.Itoa(verse),
		Sanskrit:    strings.TrimSpace(payload.Slok),
		Translation: strings.TrimSpace(strings.ReplaceAll(payload.Siva.Et, "\n", " ")),
	}
	if record.Sanskrit == "" || record.Translation == "" {
		return core.VerseRecord{}, fmt.Errorf("%w: %d.%d has no text", ErrVerseNotFound, chapter, verse)
	}
	return record, nil
}
