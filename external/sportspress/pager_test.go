package sportspress

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// pagedServer serves total items as {"id": n} objects, PageSize per page,
// and answers 400 past the last page.
func pagedServer(t *testing.T, total, pageSize int, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := (page - 1) * pageSize
		if start >= total {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"rest_post_invalid_page_number"}`))
			return
		}
		end := min(start+pageSize, total)
		body := "["
		for i := start; i < end; i++ {
			if i > start {
				body += ","
			}
			body += fmt.Sprintf(`{"id": %d}`, i+1)
		}
		body += "]"
		_, _ = w.Write([]byte(body))
	}))
}

func TestPager_StopsOnShortPage(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := pagedServer(t, 5, 2, &requests)
	defer server.Close()

	client := newTestClient(t, server, nil)
	items, err := Collect(context.Background(), client.Pages("/events", nil, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got=%d", len(items))
	}
	if requests.Load() != 3 {
		t.Fatalf("expected 3 requests, got=%d", requests.Load())
	}
}

func TestPager_BadRequestEndsCleanly(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := pagedServer(t, 4, 2, &requests)
	defer server.Close()

	client := newTestClient(t, server, nil)
	pager := client.Pages("/events", nil, 0)
	pages := 0
	for pager.Next(context.Background()) {
		pages++
	}
	if pager.Err() != nil {
		t.Fatalf("expected clean stop, got=%v", pager.Err())
	}
	if pages != 2 {
		t.Fatalf("expected 2 pages, got=%d", pages)
	}
	if pager.PageNumber() != 3 {
		t.Fatalf("expected page 3 to be the terminating request, got=%d", pager.PageNumber())
	}
}

func TestPager_MaxPagesAndReset(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := pagedServer(t, 100, 2, &requests)
	defer server.Close()

	client := newTestClient(t, server, nil)
	pager := client.Pages("/events", nil, 2)

	first, err := Collect(context.Background(), pager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 items from 2 pages, got=%d", len(first))
	}

	pager.Reset()
	second, err := Collect(context.Background(), pager)
	if err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
	if len(second) != len(first) || second[0]["id"] != first[0]["id"] {
		t.Fatalf("expected restart from first page, got=%v", second)
	}
}

func TestPager_NonListBodyYieldedOnce(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"id": 2347, "data": {}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	items, err := Collect(context.Background(), client.Pages("/lists/2347", nil, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0]["id"] != float64(2347) {
		t.Fatalf("expected the object as a single item, got=%v", items)
	}
	if requests.Load() != 1 {
		t.Fatalf("expected one request, got=%d", requests.Load())
	}
}

func TestPager_ServerErrorSetsErr(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	items, err := Collect(context.Background(), client.Pages("/events", nil, 0))
	if err == nil {
		t.Fatalf("expected error from second page")
	}
	if len(items) != 2 {
		t.Fatalf("expected first page to be kept, got=%d", len(items))
	}
}
