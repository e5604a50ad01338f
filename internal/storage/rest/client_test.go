package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/jeovahfialho/stock-dashboard/internal/config"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.Config{
		StoreURL:    srv.URL,
		StoreAPIKey: "anon-key",
		StoreTable:  "stocks",
	})
}

func TestSelectByDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/stocks", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "*", q.Get("select"))
		assert.Equal(t, "eq.2024-01-02", q.Get("update_date"))
		assert.Equal(t, "latest_change_pct.desc.nullslast,id.asc", q.Get("order"))
		assert.Equal(t, "1000", q.Get("limit"))
		assert.Empty(t, q.Get("offset"))
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "code": 1, "stock_name": "平安银行", "latest_change_pct": 2.5, "update_date": "2024-01-02"},
			{"id": 2, "code": 600519, "stock_name": "贵州茅台", "latest_change_pct": null, "update_date": "2024-01-02"}
		]`))
	})

	date := domain.MustParseDate("2024-01-02")
	rows, err := client.Select(context.Background(), domain.Query{
		Date:   &date,
		Orders: []domain.Order{domain.Desc(domain.ColumnLatestChangePct)},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "000001", rows[0].Symbol())
	assert.True(t, rows[0].LatestChangePct.Valid)
	assert.False(t, rows[1].LatestChangePct.Valid)
	assert.Equal(t, "2024-01-02", rows[1].UpdateDate.String())
}

func TestSelectProjectionAndLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "update_date", q.Get("select"))
		assert.Equal(t, "update_date.desc.nullslast,latest_change_pct.desc.nullslast,id.asc", q.Get("order"))
		assert.Equal(t, "1", q.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	rows, err := client.Select(context.Background(), domain.Query{
		Columns: []string{domain.ColumnUpdateDate},
		Orders:  []domain.Order{domain.Desc(domain.ColumnUpdateDate), domain.Desc(domain.ColumnLatestChangePct)},
		Limit:   1,
	})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSelectError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid API key", "code": "PGRST301"}`))
	})

	_, err := client.Select(context.Background(), domain.Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PGRST301", apiErr.Code)
}

func TestSelectRejectsUnknownColumn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})

	_, err := client.Select(context.Background(), domain.Query{Columns: []string{"password"}})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

func TestBaseURLWithRestPath(t *testing.T) {
	client := NewClient(&config.Config{StoreURL: "https://abc.supabase.co/rest/v1/", StoreAPIKey: "k", StoreTable: "stocks"})
	assert.Equal(t, "https://abc.supabase.co/rest/v1", client.http.BaseURL)
}

// pagedServer serve rows em fatias de no máximo maxRows, como o db-max-rows do PostgREST.
func pagedServer(t *testing.T, rows []map[string]interface{}, maxRows int, withCount bool) (*Client, *int) {
	t.Helper()
	requests := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		q := r.URL.Query()

		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, err := strconv.Atoi(q.Get("limit"))
		assert.NoError(t, err)
		if limit > maxRows {
			limit = maxRows
		}

		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		if offset > end {
			offset = end
		}

		total := "*"
		if withCount {
			total = strconv.Itoa(len(rows))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Range", fmt.Sprintf("%d-%d/%s", offset, end-1, total))
		assert.NoError(t, json.NewEncoder(w).Encode(rows[offset:end]))
	})

	return client, &requests
}

func dateRows(perDate int, dates ...string) []map[string]interface{} {
	var rows []map[string]interface{}
	id := 1
	for _, d := range dates {
		for i := 0; i < perDate; i++ {
			rows = append(rows, map[string]interface{}{"id": id, "code": id, "update_date": d})
			id++
		}
	}
	return rows
}

func TestSelectPagesPastRowCap(t *testing.T) {
	rows := dateRows(4, "2024-01-03", "2024-01-02", "2024-01-01")
	client, requests := pagedServer(t, rows, 3, true)
	client.pageSize = 5

	got, err := client.Select(context.Background(), domain.Query{
		Columns: []string{domain.ColumnUpdateDate},
		Orders:  []domain.Order{domain.Desc(domain.ColumnUpdateDate)},
	})
	require.NoError(t, err)
	require.Len(t, got, 12)
	assert.Equal(t, 4, *requests)
	assert.Equal(t, "2024-01-01", got[11].UpdateDate.String())
}

func TestSelectPagesWithoutCount(t *testing.T) {
	client, requests := pagedServer(t, dateRows(5, "2024-01-02", "2024-01-01"), 1000, false)
	client.pageSize = 4

	got, err := client.Select(context.Background(), domain.Query{})
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, 3, *requests)
}

func TestSelectLimitSpansPages(t *testing.T) {
	client, requests := pagedServer(t, dateRows(10, "2024-01-02"), 3, true)

	got, err := client.Select(context.Background(), domain.Query{Limit: 7})
	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, 3, *requests)
	assert.Equal(t, int64(7), got[6].ID)
}

func TestContentRangeTotal(t *testing.T) {
	assert.Equal(t, 5234, contentRangeTotal("0-999/5234"))
	assert.Equal(t, 0, contentRangeTotal("*/0"))
	assert.Equal(t, -1, contentRangeTotal("0-2/*"))
	assert.Equal(t, -1, contentRangeTotal(""))
}
