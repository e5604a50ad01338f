// Package rest lê snapshots pela API REST do Supabase (PostgREST).
package rest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/jeovahfialho/stock-dashboard/internal/config"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
)

const (
	restPath = "/rest/v1"

	// DefaultPageSize é o db-max-rows padrão do Supabase.
	DefaultPageSize = 1000
)

type Client struct {
	http     *resty.Client
	table    string
	pageSize int
}

// APIError é o corpo de erro do PostgREST.
type APIError struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func NewClient(cfg *config.Config) *Client {
	base := strings.TrimRight(cfg.StoreURL, "/")
	if !strings.HasSuffix(base, restPath) {
		base += restPath
	}

	rc := resty.New().
		SetBaseURL(base).
		SetHeader("apikey", cfg.StoreAPIKey).
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.StoreAPIKey)

	return &Client{http: rc, table: cfg.StoreTable, pageSize: DefaultPageSize}
}

// Select pagina com offset/limit: o PostgREST corta cada resposta em db-max-rows
// sem avisar. O total vem do Content-Range (Prefer: count=exact).
func (c *Client) Select(ctx context.Context, q domain.Query) ([]domain.Snapshot, error) {
	params, err := queryParams(q)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Snapshot, 0)
	for {
		want := c.pageSize
		if q.Limit > 0 && q.Limit-len(rows) < want {
			want = q.Limit - len(rows)
		}

		page, total, err := c.fetchPage(ctx, params, len(rows), want)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)

		switch {
		case len(page) == 0:
			return rows, nil
		case q.Limit > 0 && len(rows) >= q.Limit:
			return rows, nil
		case total >= 0 && len(rows) >= total:
			return rows, nil
		case total < 0 && len(page) < want:
			return rows, nil
		}
	}
}

// fetchPage devolve as linhas e o total informado pelo servidor (-1 se ausente).
func (c *Client) fetchPage(ctx context.Context, params map[string]string, offset, limit int) ([]domain.Snapshot, int, error) {
	var rows []domain.Snapshot
	var apiErr APIError

	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetHeader("Prefer", "count=exact").
		SetResult(&rows).
		SetError(&apiErr)
	if offset > 0 {
		req.SetQueryParam("offset", strconv.Itoa(offset))
	}

	resp, err := req.Get("/" + c.table)
	if err != nil {
		return nil, 0, fmt.Errorf("erro na requisição: %w", err)
	}

	if resp.IsError() {
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return nil, 0, &apiErr
	}

	return rows, contentRangeTotal(resp.Header().Get("Content-Range")), nil
}

// contentRangeTotal lê "0-999/5234"; "*" ou cabeçalho ausente dão -1.
func contentRangeTotal(header string) int {
	i := strings.LastIndexByte(header, '/')
	if i < 0 {
		return -1
	}
	total, err := strconv.Atoi(header[i+1:])
	if err != nil {
		return -1
	}
	return total
}

func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Select(ctx, domain.Query{Columns: []string{domain.ColumnID}, Limit: 1})
	return err
}

func (c *Client) Close() {}

func queryParams(q domain.Query) (map[string]string, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := map[string]string{"select": "*"}
	if len(q.Columns) > 0 {
		params["select"] = strings.Join(q.Columns, ",")
	}

	if q.Date != nil {
		params[domain.ColumnUpdateDate] = "eq." + q.Date.String()
	}

	// id desempata a ordem para que as páginas não se sobreponham
	orders := make([]string, 0, len(q.Orders)+1)
	byID := false
	for _, o := range q.Orders {
		dir := "asc"
		if o.Desc {
			dir = "desc"
		}
		orders = append(orders, o.Column+"."+dir+".nullslast")
		byID = byID || o.Column == domain.ColumnID
	}
	if !byID {
		orders = append(orders, domain.ColumnID+".asc")
	}
	params["order"] = strings.Join(orders, ",")

	return params, nil
}
