package abbr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout caps both connecting to the upstream and the whole request.
const DefaultTimeout = 5 * time.Second

const userAgent = "abbrbot/1.0 (https://github.com/mrlokans/abbrbot)"

// ErrNoEndpoint is returned when the resolver has no API URL configured.
var ErrNoEndpoint = errors.New("abbreviation api url is not configured")

var queryPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Resolver implements Client against an nbnhhsh-compatible guess API.
// It keeps no state between calls: every request builds its own HTTP client
// and releases it before returning.
type Resolver struct {
	apiURL  string
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for upstream shape warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver posting to apiURL.
func NewResolver(apiURL string, opts ...Option) *Resolver {
	r := &Resolver{
		apiURL:  apiURL,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("abbr")
	return r
}

// Resolve returns the chat reply for a raw command argument.
func (r *Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	res, err := r.Lookup(ctx, raw)
	if err != nil {
		return "", err
	}
	return res.Reply, nil
}

// Lookup validates raw, queries the upstream and formats the first candidate.
// Input problems never reach the network; upstream failures are returned as
// errors for the caller to report.
func (r *Resolver) Lookup(ctx context.Context, raw string) (Result, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{Reply: MsgMissingArgument, Outcome: OutcomeMissing}, nil
	}
	if !queryPattern.MatchString(text) {
		return Result{Reply: MsgInvalidQuery, Outcome: OutcomeInvalid}, nil
	}

	candidates, err := r.Guess(ctx, text)
	if err != nil {
		return Result{}, err
	}

	if reply, ok := formatCandidates(candidates); ok {
		return Result{Reply: reply, Outcome: OutcomeResolved}, nil
	}
	return Result{Reply: MsgNotFound, Outcome: OutcomeNotFound}, nil
}

// Guess posts text to the upstream and returns its candidates in order.
// A body that is valid JSON but not an array is logged and treated as empty.
func (r *Resolver) Guess(ctx context.Context, text string) ([]Candidate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if r.apiURL == "" {
		return nil, ErrNoEndpoint
	}

	payload, err := json.Marshal(guessRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	client := r.newHTTPClient()
	defer client.CloseIdleConnections()

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post guess: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var body json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !isJSONArray(body) {
		r.logger.Warn("unexpected response shape",
			zap.String("text", text),
			zap.ByteString("body", body))
		return nil, nil
	}

	var entries []*Candidate
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for i, c := range entries {
		if c == nil {
			return nil, fmt.Errorf("decode candidates: entry %d is null", i)
		}
		candidates = append(candidates, *c)
	}
	return candidates, nil
}

// newHTTPClient builds a single-use client. Keep-alives are off so the
// connection is gone once the body is closed.
func (r *Resolver) newHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: r.timeout}
	return &http.Client{
		Timeout: r.timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: r.timeout,
			DisableKeepAlives:   true,
		},
		// Redirects count as non-2xx.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// formatCandidates renders the first candidate as "name：m1，m2". A candidate
// whose trans list is empty or missing counts as no match.
func formatCandidates(candidates []Candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	first := candidates[0]
	if len(first.Trans) == 0 {
		return "", false
	}
	return first.Name + "：" + strings.Join(first.Trans, "，"), true
}

func isJSONArray(body json.RawMessage) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

type guessRequest struct {
	Text string `json:"text"`
}
