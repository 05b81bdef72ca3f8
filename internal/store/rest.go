// ABOUTME: Store backed by the hosted database's REST (PostgREST) endpoint.
// ABOUTME: Sends the project key on every request; one request per query, no retries.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultHTTPTimeout bounds a single REST request.
const DefaultHTTPTimeout = 30 * time.Second

// REST queries tables through <baseURL>/rest/v1/<table>.
type REST struct {
	baseURL string
	key     string
	client  *http.Client
}

// NewREST creates a REST store. A nil client gets DefaultHTTPTimeout.
func NewREST(baseURL, key string, client *http.Client) *REST {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		client:  client,
	}
}

// SelectAll returns every row of table ordered by orderBy ascending.
func (r *REST) SelectAll(ctx context.Context, table Table, orderBy string, dest any) error {
	if err := checkQuery(table, orderBy); err != nil {
		return err
	}
	q := url.Values{}
	q.Set("select", "*")
	setOrder(q, orderBy)
	return r.get(ctx, table, q, dest)
}

// SelectWhere returns rows where field equals value, ordered by orderBy ascending.
func (r *REST) SelectWhere(ctx context.Context, table Table, field string, value any, orderBy string, dest any) error {
	if err := checkQuery(table, field, orderBy); err != nil {
		return err
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set(field, "eq."+fmt.Sprint(value))
	setOrder(q, orderBy)
	return r.get(ctx, table, q, dest)
}

// SelectOne returns the row with the given id or ErrNotFound.
func (r *REST) SelectOne(ctx context.Context, table Table, id int64, dest any) error {
	if err := checkQuery(table); err != nil {
		return err
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("limit", "1")

	var rows []json.RawMessage
	if err := r.get(ctx, table, q, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("decode %s row: %w", table, err)
	}
	return nil
}

// Close is a no-op; the HTTP client holds no per-store resources.
func (r *REST) Close() error {
	return nil
}

func setOrder(q url.Values, orderBy string) {
	if orderBy != "" {
		q.Set("order", orderBy+".asc")
	}
}

// restError is the error body PostgREST returns.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (r *REST) get(ctx context.Context, table Table, q url.Values, dest any) error {
	endpoint := r.baseURL + "/rest/v1/" + string(table) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var re restError
		if json.Unmarshal(body, &re) == nil && re.Message != "" {
			return fmt.Errorf("query %s: %s (status %d, code %s)", table, re.Message, resp.StatusCode, re.Code)
		}
		return fmt.Errorf("query %s: status %d: %s", table, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}
