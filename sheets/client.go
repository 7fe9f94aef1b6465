// Package sheets talks to the spreadsheet-backed work-log store: a script
// endpoint that returns every stored record on GET and appends the posted
// records on POST.
package sheets

import (
	"aviation-ops/errors"
	"aviation-ops/metrics"
	"aviation-ops/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaveStatus is the outcome of a Save call.
type SaveStatus string

const (
	SaveSuccess SaveStatus = "success"
	SaveError   SaveStatus = "error"
	SaveSkipped SaveStatus = "skipped"
)

// RequestIDHeader carries a per-request id so store-side logs can be matched.
const RequestIDHeader = "X-Request-Id"

// Client reads and writes work logs through the store endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// New returns a client for the store at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// storedLog is a record as the store returns it. Cells keep whatever type
// the sheet held, so numeric columns may arrive as strings.
type storedLog struct {
	Date         models.Value `json:"Date"`
	AircraftType models.Value `json:"AircraftType"`
	Airport      models.Value `json:"Airport"`
	WorkType     models.Value `json:"WorkType"`
	Flights      models.Value `json:"Flights"`
	ManHours     models.Value `json:"ManHours"`
	FileName     models.Value `json:"FileName"`
}

func (s storedLog) workLog() models.WorkLog {
	return models.WorkLog{
		Date:         s.Date,
		AircraftType: s.AircraftType.String(),
		Airport:      s.Airport.String(),
		WorkType:     s.WorkType.String(),
		Flights:      numberOrZero(s.Flights),
		ManHours:     numberOrZero(s.ManHours),
		FileName:     s.FileName.String(),
	}
}

func numberOrZero(v models.Value) float64 {
	f, ok := v.Float()
	if !ok {
		return 0
	}
	return f
}

// Fetch returns every stored work log. Flights and ManHours that are not
// numbers count as zero.
func (c *Client) Fetch(ctx context.Context) ([]models.WorkLog, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(http.MethodGet, "error")
		return nil, fmt.Errorf("failed to fetch work logs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(http.MethodGet, "error")
		return nil, fmt.Errorf("%w: status %d", errors.ErrRemoteStatus, resp.StatusCode)
	}

	var stored []storedLog
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		c.observe(http.MethodGet, "error")
		return nil, fmt.Errorf("failed to decode work logs: %w", err)
	}

	logs := make([]models.WorkLog, len(stored))
	for i, s := range stored {
		logs[i] = s.workLog()
	}
	c.observe(http.MethodGet, "success")
	c.logger.Debug("Fetched work logs", zap.Int("records", len(logs)))
	return logs, nil
}

// Save appends logs to the store, stamping each with fileName. Nothing is
// sent for an empty batch. The body is JSON sent as text/plain, which the
// script endpoint accepts without a preflight.
func (c *Client) Save(ctx context.Context, logs []models.WorkLog, fileName string) (SaveStatus, error) {
	if len(logs) == 0 {
		c.observe(http.MethodPost, string(SaveSkipped))
		return SaveSkipped, nil
	}

	stamped := make([]models.WorkLog, len(logs))
	for i, l := range logs {
		l.FileName = fileName
		stamped[i] = l
	}
	body, err := json.Marshal(stamped)
	if err != nil {
		return SaveError, fmt.Errorf("failed to encode work logs: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(body))
	if err != nil {
		return SaveError, err
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(http.MethodPost, string(SaveError))
		return SaveError, fmt.Errorf("failed to save work logs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(http.MethodPost, string(SaveError))
		return SaveError, fmt.Errorf("%w: %s", errors.ErrRemoteStatus, remoteMessage(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.observe(http.MethodPost, string(SaveSuccess))
	c.logger.Info("Saved work logs", zap.String("file", fileName), zap.Int("records", len(stamped)))
	return SaveSuccess, nil
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: work-log store URL is not set", errors.ErrInvalidConfig)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

// remoteMessage extracts {"message": "..."} from an error response, falling
// back to the status line.
func remoteMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

func (c *Client) observe(method, outcome string) {
	metrics.StoreRequestsTotal.WithLabelValues(method, outcome).Inc()
}
