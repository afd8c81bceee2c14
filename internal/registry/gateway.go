package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/pmdelacruz/artifact-market/internal/redisx"
)

// Gateway error messages travel in-band; the unreachable one maps to a
// 500 at the edge, everything else stays a 200 banner.
const (
	MsgUnreachable = "failed to reach artifact registry"
	MsgNoArtifacts = "no artifacts found"
)

// Gateway is the published-catalog read path. It is the only place the
// revoked filter is applied; nothing downstream ever sees a revoked item.
type Gateway struct {
	Client *Client
	Redis  *redis.Client // optional; nil disables the catalog cache
	sfg    singleflight.Group
}

func NewGateway(client *Client, rdb *redis.Client) *Gateway {
	return &Gateway{Client: client, Redis: rdb}
}

// ListPublished returns the active catalog plus at most one error message.
// It never fails past this boundary: upstream trouble yields an empty
// slice and a message the caller renders as a banner.
func (g *Gateway) ListPublished(ctx context.Context, apiKey string) ([]Artifact, string) {
	// The cache only holds the fallback-key scope. A caller-supplied key
	// always goes upstream.
	if apiKey == "" && g.Redis != nil {
		if b, err := g.Redis.Get(ctx, redisx.KeyPublishedCatalog).Bytes(); err == nil {
			var cached []Artifact
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, ""
			}
			// corrupt cache entry: drop it and fall through to upstream
			_ = g.Redis.Del(ctx, redisx.KeyPublishedCatalog).Err()
		}
	}

	v, err, _ := g.sfg.Do(apiKey, func() (any, error) {
		return g.Client.ListArtifacts(ctx, apiKey)
	})
	if errors.Is(err, ErrBadStatus) {
		// the registry answered, it just had nothing for this key
		return []Artifact{}, MsgNoArtifacts
	}
	if err != nil {
		log.Printf("registry fetch: %v", err)
		return []Artifact{}, MsgUnreachable
	}
	items := v.([]Artifact)
	if items == nil {
		return []Artifact{}, MsgNoArtifacts
	}

	published := FilterPublished(items)
	if apiKey == "" && g.Redis != nil {
		if b, err := json.Marshal(published); err == nil {
			_ = g.Redis.Set(ctx, redisx.KeyPublishedCatalog, b, redisx.TTLCatalog).Err()
		}
	}
	return published, ""
}
