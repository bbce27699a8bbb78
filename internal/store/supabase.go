package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"cryptodigest/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Supabase stores records through the Supabase PostgREST API, for
// deployments where the database is only reachable over HTTP.
type Supabase struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewSupabase(baseURL, apiKey string, tracer trace.Tracer) *Supabase {
	return &Supabase{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

func (s *Supabase) InsertPriceRecords(ctx context.Context, records []domain.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, span := s.tracer.Start(ctx, "store.insert-prices")
	defer span.End()

	return s.insert(ctx, "prices", records)
}

func (s *Supabase) InsertNewsRecords(ctx context.Context, records []domain.NewsRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, span := s.tracer.Start(ctx, "store.insert-news")
	defer span.End()

	return s.insert(ctx, "news", records)
}

func (s *Supabase) LatestPriceRecords(ctx context.Context, limit int) ([]domain.PriceRecord, error) {
	_, span := s.tracer.Start(ctx, "store.latest-prices")
	defer span.End()

	var records []domain.PriceRecord
	if err := s.queryLatest(ctx, "prices", limit, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Supabase) LatestNewsRecords(ctx context.Context, limit int) ([]domain.NewsRecord, error) {
	_, span := s.tracer.Start(ctx, "store.latest-news")
	defer span.End()

	var records []domain.NewsRecord
	if err := s.queryLatest(ctx, "news", limit, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// insert POSTs a JSON array to PostgREST. PostgREST inserts the whole array
// in one statement, which keeps a run's records all-or-nothing.
func (s *Supabase) insert(ctx context.Context, table string, records any) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return domain.StoreError("insert "+table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/rest/v1/"+table, bytes.NewReader(payload))
	if err != nil {
		return domain.StoreError("insert "+table, err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.StoreError("insert "+table, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "insert "+table); err != nil {
		return err
	}
	return nil
}

func (s *Supabase) queryLatest(ctx context.Context, table string, limit int, out any) error {
	url := fmt.Sprintf("%s/rest/v1/%s?select=*&order=captured_at.desc&limit=%s",
		s.baseURL, table, strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.StoreError("query "+table, err)
	}
	s.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.StoreError("query "+table, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "query "+table); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.StoreError("query "+table, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.StoreError("query "+table, err)
	}
	return nil
}

func (s *Supabase) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

func checkStatus(resp *http.Response, op string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.AuthError(op, fmt.Errorf("supabase API error %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(resp.Body)
		return domain.StoreError(op,
			fmt.Errorf("supabase API error %d: %s", resp.StatusCode, string(body)))
	}
	return nil
}
