package sportspress

import (
	"context"
	"fmt"

	"github.com/riskibarqy/hoopstats/internal/usecase"
)

func (c *Client) FetchPlayerProfile(ctx context.Context, id int64) (usecase.Profile, error) {
	return c.fetchProfile(ctx, "players", id)
}

func (c *Client) FetchTeamProfile(ctx context.Context, id int64) (usecase.Profile, error) {
	return c.fetchProfile(ctx, "teams", id)
}

func (c *Client) fetchProfile(ctx context.Context, collection string, id int64) (usecase.Profile, error) {
	if id <= 0 {
		return usecase.Profile{}, fmt.Errorf("%w: %s id must be greater than zero", usecase.ErrInvalidInput, collection)
	}

	var payload map[string]any
	if _, err := c.GetJSON(ctx, fmt.Sprintf("/%s/%d", collection, id), nil, &payload); err != nil {
		return usecase.Profile{}, fmt.Errorf("fetch %s profile id=%d: %w", collection, id, err)
	}

	profile := usecase.Profile{
		ID:   id,
		Name: firstNonEmpty(getString(payload, "title"), getString(payload, "name")),
		Slug: getString(payload, "slug"),
		URL:  getString(payload, "link"),
	}
	if profile.Name == "" {
		return profile, fmt.Errorf("%w: %s profile id=%d has no name", usecase.ErrNotFound, collection, id)
	}
	return profile, nil
}
