package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/hoopstats/internal/platform/cache"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

type EntityKind string

const (
	KindPlayer EntityKind = "player"
	KindTeam   EntityKind = "team"
)

func (k EntityKind) label() string {
	if k == KindTeam {
		return "Team"
	}
	return "Player"
}

// NameCache turns player and team ids into display names and profile URLs.
// Entries live for the whole process; a failed lookup caches the "{Kind} {id}"
// fallback so the site is asked at most once per id.
type NameCache struct {
	profiles ProfileProvider
	siteURL  string
	logger   *logging.Logger

	playerNames *cache.Store[string]
	teamNames   *cache.Store[string]
	playerURLs  *cache.Store[string]
	teamURLs    *cache.Store[string]
}

func NewNameCache(profiles ProfileProvider, siteURL string, logger *logging.Logger) *NameCache {
	if logger == nil {
		logger = logging.Default()
	}
	return &NameCache{
		profiles:    profiles,
		siteURL:     strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		logger:      logger.Named("names"),
		playerNames: cache.NewStore[string](0),
		teamNames:   cache.NewStore[string](0),
		playerURLs:  cache.NewStore[string](0),
		teamURLs:    cache.NewStore[string](0),
	}
}

func (c *NameCache) Resolve(ctx context.Context, kind EntityKind, id int64) (string, string) {
	return c.ResolveName(ctx, kind, id), c.ResolveURL(ctx, kind, id)
}

func (c *NameCache) ResolveName(ctx context.Context, kind EntityKind, id int64) string {
	if id <= 0 {
		return "Unknown " + kind.label()
	}

	names, urls := c.stores(kind)
	name, _ := names.GetOrLoad(ctx, cacheKey(id), func(ctx context.Context) (string, error) {
		fallback := fallbackName(kind, id)
		if c.profiles == nil {
			return fallback, nil
		}

		profile, err := c.fetch(ctx, kind, id)
		if err != nil {
			c.logger.WarnContext(ctx, "profile lookup failed, using fallback name", "kind", kind, "id", id, "error", err)
			return fallback, nil
		}
		if profile.URL != "" {
			urls.Set(ctx, cacheKey(id), profile.URL)
		} else if profile.Slug != "" {
			urls.Set(ctx, cacheKey(id), c.slugURL(kind, profile.Slug))
		}
		return firstNonBlank(profile.Name, fallback), nil
	})
	return name
}

func (c *NameCache) ResolveURL(ctx context.Context, kind EntityKind, id int64) string {
	if id <= 0 {
		return ""
	}

	_, urls := c.stores(kind)
	key := cacheKey(id)
	if cached, ok := urls.Get(ctx, key); ok {
		return cached
	}

	// Name resolution stores the profile link as a side effect.
	name := c.ResolveName(ctx, kind, id)
	if cached, ok := urls.Get(ctx, key); ok {
		return cached
	}

	resolved := c.idURL(kind, id)
	if name != fallbackName(kind, id) {
		if slug := Slugify(name); slug != "" {
			resolved = c.slugURL(kind, slug)
		}
	}
	urls.Set(ctx, key, resolved)
	return resolved
}

func (c *NameCache) fetch(ctx context.Context, kind EntityKind, id int64) (Profile, error) {
	if kind == KindTeam {
		return c.profiles.FetchTeamProfile(ctx, id)
	}
	return c.profiles.FetchPlayerProfile(ctx, id)
}

func (c *NameCache) stores(kind EntityKind) (*cache.Store[string], *cache.Store[string]) {
	if kind == KindTeam {
		return c.teamNames, c.teamURLs
	}
	return c.playerNames, c.playerURLs
}

func (c *NameCache) slugURL(kind EntityKind, slug string) string {
	return fmt.Sprintf("%s/%s/%s/", c.siteURL, kind, slug)
}

func (c *NameCache) idURL(kind EntityKind, id int64) string {
	return fmt.Sprintf("%s/%s/%d/", c.siteURL, kind, id)
}

// Slugify lowercases name and turns spaces and underscores into dashes.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer(" ", "-", "_", "-").Replace(slug)
	return slug
}

func fallbackName(kind EntityKind, id int64) string {
	return fmt.Sprintf("%s %d", kind.label(), id)
}

func cacheKey(id int64) string {
	return fmt.Sprintf("%d", id)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
