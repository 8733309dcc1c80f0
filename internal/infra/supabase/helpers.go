package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
)

// ============================================================
// HTTP helpers
// ============================================================

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil)
}

func (c *Client) doPost(ctx context.Context, table string, data any) ([]byte, error) {
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodPost, table, bytes.NewReader(jsonBody))
}

// ownerFilter builds the PostgREST query selecting one owner's rows in
// insertion order.
func ownerFilter(table, ownerID string) string {
	q := url.Values{}
	q.Set("owner_id", "eq."+ownerID)
	q.Set("order", "created_at.asc")
	return table + "?" + q.Encode()
}

// asDuplicate maps PostgREST's unique-violation response to ErrDuplicate.
func asDuplicate(err error, key string) error {
	var se *statusError
	if errors.As(err, &se) && se.Status == http.StatusConflict {
		return &domain.ErrDuplicate{Key: key}
	}
	return err
}

// decodeAmount keeps numbers as json.Number and strings as strings.
func decodeAmount(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
