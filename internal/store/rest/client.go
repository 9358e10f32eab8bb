package rest

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	restPath        = "/rest/v1"
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/recruiter-assistant"
)

// Client talks to a PostgREST-style endpoint of a hosted database using the
// service credential.
type Client struct {
	baseURL    string
	serviceKey string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

func New(baseURL, serviceKey string, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("database url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid database url %q: %w", baseURL, err)
	}
	if strings.TrimSpace(serviceKey) == "" {
		return nil, errors.New("database service key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		serviceKey: strings.TrimSpace(serviceKey),
		logger:     logger.Named("rest-store"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
	}, nil
}

// Ping issues the cheapest possible read against the profile table.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")

	var rows []map[string]any
	return c.getRows(ctx, profileTable, q, &rows)
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + restPath + "/" + table
}

// getRows fetches rows of a table and decodes them into target, which must
// be a pointer to a slice.
func (c *Client) getRows(ctx context.Context, table string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL(table), nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Accept", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: bad status: %s", table, resp.Status)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%s: decode rows: %w", table, err)
	}

	if err := decodeRows(rows, target); err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}

	return nil
}

// insert writes a single row. The endpoint answers 201 with no body.
func (c *Client) insert(ctx context.Context, table string, row any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%s: encode row: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(table), bytes.NewReader(data))
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.request(req)
	if err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: bad status: %s: %s", table, resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceKey))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func decodeRows(rows []map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       timestampHook,
		Result:           target,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(rows)
}

// timestampLayouts covers timestamptz and timestamp columns as the REST
// endpoint serializes them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// timestampHook parses known layouts and leaves the zero time for anything
// else, so one odd column value does not fail the whole row set.
func timestampHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	value := strings.TrimSpace(data.(string))
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, nil
}
