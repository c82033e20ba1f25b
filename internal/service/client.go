// Package service implements the HTTP client for the speech synthesis
// service: POST /generate-speech plus the /health and /voices endpoints.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voice-studio/internal/ttypes"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// SpeechPath is the synthesis endpoint path.
	SpeechPath = "/generate-speech"
	healthPath = "/health"
	voicesPath = "/voices"

	// maxAudioSize bounds how much of a response body is read.
	maxAudioSize = 64 << 20
)

// Config holds configuration for the service client.
type Config struct {
	// BaseURL of the synthesis service, e.g. http://localhost:8000
	BaseURL string

	// Timeout applied to each request whose context has no deadline
	Timeout time.Duration

	// RequestsPerMinute limits outbound requests (0 disables limiting)
	RequestsPerMinute int

	// HTTPClient to use; defaults to a new http.Client
	HTTPClient *http.Client

	// Cache for synthesized audio (optional)
	Cache ttypes.AudioCache

	// UserAgent sent with every request
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "http://localhost:8000",
		Timeout:           30 * time.Second,
		RequestsPerMinute: 60,
		UserAgent:         "voicestudio",
	}
}

// Client talks to the speech synthesis service.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	cache     ttypes.AudioCache
	userAgent string
}

// VoicesResponse is the body of GET /voices.
type VoicesResponse struct {
	Voices []ttypes.Voice `json:"voices"`
	Engine string         `json:"engine"`
}

// NewClient creates a client for the service at config.BaseURL.
func NewClient(config Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q is not a supported protocol", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var limiter *rate.Limiter
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1)
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultConfig().UserAgent
	}

	return &Client{
		baseURL:   u,
		http:      httpClient,
		timeout:   config.Timeout,
		limiter:   limiter,
		cache:     config.Cache,
		userAgent: userAgent,
	}, nil
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Synthesize sends req to the service and returns the audio body.
// Any non-2xx status is returned as a *StatusError.
func (c *Client) Synthesize(ctx context.Context, req ttypes.SpeechRequest) ([]byte, error) {
	req = req.WithDefaults()

	var cacheKey string
	if c.cache != nil {
		cacheKey = req.Key()
		if audio, ok := c.cache.Get(cacheKey); ok {
			log.Debug("Speech served from cache", "size", humanize.Bytes(uint64(len(audio))))
			return audio, nil
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("unable to encode request: %w", err)
	}

	requestID := uuid.NewString()
	start := time.Now()
	log.Debug("Synthesis started",
		"request_id", requestID,
		"textLength", len([]rune(req.Text)),
		"voice", req.Voice,
		"speed", req.Speed)

	audio, err := c.do(ctx, http.MethodPost, SpeechPath, requestID, bytes.NewReader(body), "audio/wav")
	if err != nil {
		log.Debug("Synthesis failed",
			"request_id", requestID,
			"duration", time.Since(start),
			"error", err)
		return nil, err
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	log.Debug("Synthesis completed",
		"request_id", requestID,
		"duration", time.Since(start),
		"size", humanize.Bytes(uint64(len(audio))))

	if c.cache != nil {
		// Cache errors are non-fatal
		if err := c.cache.Put(cacheKey, audio); err != nil {
			log.Debug("Unable to cache speech", "error", err)
		}
	}

	return audio, nil
}

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (ttypes.ServiceHealth, error) {
	var health ttypes.ServiceHealth
	if err := c.getJSON(ctx, healthPath, &health); err != nil {
		return ttypes.ServiceHealth{}, err
	}
	return health, nil
}

// Voices queries GET /voices.
func (c *Client) Voices(ctx context.Context) (VoicesResponse, error) {
	var voices VoicesResponse
	if err := c.getJSON(ctx, voicesPath, &voices); err != nil {
		return VoicesResponse{}, err
	}
	return voices, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, uuid.NewString(), nil, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unable to decode %s response: %w", path, err)
	}
	return nil
}

// do performs one request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path, requestID string, body io.Reader, accept string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.contextError(ctx, fmt.Errorf("rate limit wait cancelled: %w", err))
		}
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.contextError(ctx, fmt.Errorf("unable to reach speech service: %w", err))
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioSize+1))
	if err != nil {
		return nil, c.contextError(ctx, fmt.Errorf("unable to read response: %w", err))
	}
	if len(data) > maxAudioSize {
		return nil, fmt.Errorf("%w: more than %s", ErrAudioTooLarge, humanize.IBytes(maxAudioSize))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Detail: parseDetail(data)}
	}

	return data, nil
}

// contextError reports a deadline as ErrTimeout while keeping the cause.
func (c *Client) contextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if c.timeout > 0 {
			return fmt.Errorf("%w after %s: %w", ErrTimeout, c.timeout, err)
		}
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
