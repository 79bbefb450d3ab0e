package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"priceview/internal/history"
)

// HTTPOptions parameterise the JSON over HTTP source.
type HTTPOptions struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
	// MaxBytes caps the response body. Zero means DefaultMaxBodyBytes.
	MaxBytes int64
}

// DefaultMaxBodyBytes is the response size limit when none is configured.
const DefaultMaxBodyBytes int64 = 64 << 20

// HTTP fetches an observation table from a JSON endpoint.
//
// Two payload shapes are accepted: {"columns": [...], "rows": [[...], ...]}
// and an array of objects keyed by column name.
type HTTP struct {
	opts   HTTPOptions
	logger zerolog.Logger
	client *http.Client
}

// NewHTTP constructs an HTTP source.
func NewHTTP(opts HTTPOptions, logger zerolog.Logger) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBodyBytes
	}
	return &HTTP{
		opts:   opts,
		logger: logger.With().Str("component", "http_source").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the source in errors and logs.
func (h *HTTP) Name() string { return h.opts.URL }

// Fetch performs a single GET and decodes the payload.
func (h *HTTP) Fetch(ctx context.Context) (history.Table, error) {
	if h.opts.URL == "" {
		return history.Table{}, errors.New("source url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.opts.URL, nil)
	if err != nil {
		return history.Table{}, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(h.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "priceview/1.0")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return history.Table{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, h.opts.MaxBytes+1))
	if err != nil {
		return history.Table{}, err
	}
	if int64(len(payload)) > h.opts.MaxBytes {
		return history.Table{}, fmt.Errorf("response body exceeds %d bytes", h.opts.MaxBytes)
	}
	if resp.StatusCode != http.StatusOK {
		return history.Table{}, parseHTTPError(resp.StatusCode, payload)
	}

	table, err := decodeTable(payload)
	if err != nil {
		return history.Table{}, err
	}
	h.logger.Debug().Int("rows", len(table.Rows)).Msg("fetched observations")
	return table, nil
}

type columnarPayload struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func decodeTable(payload []byte) (history.Table, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return history.Table{}, errors.New("empty response body")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '[' {
		var records []map[string]any
		if err := dec.Decode(&records); err != nil {
			return history.Table{}, fmt.Errorf("decode records: %w", err)
		}
		return recordsToTable(records), nil
	}

	var body columnarPayload
	if err := dec.Decode(&body); err != nil {
		return history.Table{}, fmt.Errorf("decode table: %w", err)
	}
	if len(body.Columns) == 0 {
		return history.Table{}, errors.New("response has no columns")
	}
	table := history.Table{Header: body.Columns}
	for _, row := range body.Rows {
		table.Rows = append(table.Rows, formatRow(row))
	}
	return table, nil
}

func recordsToTable(records []map[string]any) history.Table {
	seen := make(map[string]struct{})
	var header []string
	for _, rec := range records {
		for key := range rec {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				header = append(header, key)
			}
		}
	}
	sort.Strings(header)

	table := history.Table{Header: header}
	for _, rec := range records {
		row := make([]string, len(header))
		for i, key := range header {
			row[i] = formatCell(rec[key])
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Errorf("source api error (%d): %s", status, apiErr.Message)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("source api error (%d): %s", status, apiErr.Error)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("source api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("source api error (%d)", status)
}

var _ history.Source = (*HTTP)(nil)
