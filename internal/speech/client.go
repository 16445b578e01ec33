// Package speech provides a client for the SaluteSpeech recognition API.
// The core only ever sees the transcribed text; audio formats, token refresh,
// and transport errors stay inside this package.
package speech

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mlebedev/ledgerbot/internal/logging"
)

const tokenExpiryBuffer = 30 * time.Second // Refresh 30 seconds before expiry

// Options configures the SaluteSpeech client.
type Options struct {
	AuthKey    string // Base64 client credentials for the OAuth endpoint
	APIURL     string // e.g. https://smartspeech.sber.ru/rest/v1
	AuthURL    string // e.g. https://ngw.devices.sberbank.ru:9443/api/v2/oauth
	SampleRate int    // Telegram voice messages are 48 kHz OGG/Opus

	// InsecureSkipVerify disables TLS certificate checks. The API endpoint
	// is signed by a national CA that is usually absent from system trust
	// stores.
	InsecureSkipVerify bool
}

// Client talks to the SaluteSpeech REST API with a cached access token.
type Client struct {
	opts       Options
	httpClient *http.Client
	logger     logging.Logger
	newRqUID   func() string

	mu             sync.Mutex
	token          string
	tokenExpiresAt time.Time
}

// NewClient creates a SaluteSpeech client. newRqUID generates the per-request
// RqUID header; pass nil to use random UUIDs.
func NewClient(opts Options, logger logging.Logger, newRqUID func() string) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if newRqUID == nil {
		newRqUID = uuid.NewString
	}
	transport := http.DefaultTransport
	if opts.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 48000
	}
	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
		logger:   logger,
		newRqUID: newRqUID,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // Unix milliseconds
}

type recognizeResponse struct {
	Result []string `json:"result"`
}

// accessToken returns the cached token, requesting a new one when it is
// missing or expires within the buffer window.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiresAt.Add(-tokenExpiryBuffer)) {
		return c.token, nil
	}

	c.logger.Debug("Requesting SaluteSpeech access token")

	form := url.Values{}
	form.Set("scope", "SALUTE_SPEECH_PERS")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.opts.AuthKey)
	req.Header.Set("RqUID", c.newRqUID())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	c.token = tok.AccessToken
	c.tokenExpiresAt = time.UnixMilli(tok.ExpiresAt)
	return c.token, nil
}

// Transcribe sends OGG/Opus audio for recognition and returns the first
// result string. API-level failures return an empty string and no error: a
// failed recognition is handled the same as silence.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimSuffix(c.opts.APIURL, "/") + "/speech:recognize"
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse recognize URL: %w", err)
	}
	q := u.Query()
	q.Set("sample_rate", strconv.Itoa(c.opts.SampleRate))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build recognize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "audio/ogg;codecs=opus")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.WithField("status", resp.StatusCode).
			WithField("body", string(body)).
			Error("SaluteSpeech recognition failed")
		return "", nil
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode recognize response: %w", err)
	}
	if len(result.Result) == 0 {
		return "", nil
	}
	return result.Result[0], nil
}
