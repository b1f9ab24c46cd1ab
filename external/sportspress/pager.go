package sportspress

import (
	"context"
	"net/url"
	"strconv"

	"github.com/riskibarqy/hoopstats/internal/platform/resilience"
)

// Pager walks a paginated collection one page per Next call. It is lazy,
// stops after maxPages (0 means unbounded) and can be restarted with Reset.
//
// Iteration ends cleanly on an empty page, a page shorter than the page
// size, or an HTTP 400 past the last page. A body that is not a list is
// yielded once as a single item. Any other failure ends iteration with Err
// set.
type Pager struct {
	client   *Client
	path     string
	query    url.Values
	maxPages int

	page  int
	items []map[string]any
	done  bool
	err   error
}

func (c *Client) Pages(path string, query url.Values, maxPages int) *Pager {
	if maxPages < 0 {
		maxPages = 0
	}
	return &Pager{
		client:   c,
		path:     path,
		query:    cloneValues(query),
		maxPages: maxPages,
	}
}

func (p *Pager) Next(ctx context.Context) bool {
	p.items = nil
	if p.done {
		return false
	}
	if p.maxPages > 0 && p.page >= p.maxPages {
		p.done = true
		return false
	}

	if p.page > 0 && p.client.pageDelay > 0 {
		if err := resilience.Sleep(ctx, p.client.pageDelay); err != nil {
			p.err = err
			p.done = true
			return false
		}
	}

	p.page++
	query := cloneValues(p.query)
	query.Set("per_page", strconv.Itoa(p.client.pageSize))
	query.Set("page", strconv.Itoa(p.page))

	var payload any
	if _, err := p.client.GetJSON(ctx, p.path, query, &payload); err != nil {
		p.done = true
		if IsEndOfPages(err) {
			p.client.logger.DebugContext(ctx, "pagination ended on status 400", "path", p.path, "page", p.page)
			return false
		}
		p.err = err
		return false
	}

	switch typed := payload.(type) {
	case []any:
		if len(typed) == 0 {
			p.done = true
			return false
		}
		if len(typed) < p.client.pageSize {
			p.done = true
		}
		p.items = objects(typed)
		return true
	case map[string]any:
		p.done = true
		p.items = []map[string]any{typed}
		return true
	default:
		p.done = true
		return false
	}
}

// Page returns the items fetched by the last successful Next.
func (p *Pager) Page() []map[string]any {
	return p.items
}

// PageNumber is the 1-based number of the last requested page.
func (p *Pager) PageNumber() int {
	return p.page
}

func (p *Pager) Err() error {
	return p.err
}

func (p *Pager) Reset() {
	p.page = 0
	p.items = nil
	p.done = false
	p.err = nil
}

// Each feeds every item of every page to fn until the pager is exhausted or
// fn returns an error.
func Each(ctx context.Context, pager *Pager, fn func(item map[string]any) error) error {
	for pager.Next(ctx) {
		for _, item := range pager.Page() {
			if err := fn(item); err != nil {
				return err
			}
		}
	}
	return pager.Err()
}

func Collect(ctx context.Context, pager *Pager) ([]map[string]any, error) {
	out := make([]map[string]any, 0, pager.client.pageSize)
	err := Each(ctx, pager, func(item map[string]any) error {
		out = append(out, item)
		return nil
	})
	return out, err
}

func objects(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for key, values := range in {
		out[key] = append([]string(nil), values...)
	}
	return out
}
