package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"kidquiz-engine/internal/domain"
)

// PackageLoader fetches package content from a backing store (e.g., Postgres).
type PackageLoader interface {
	LoadPackage(ctx context.Context, packageID string) (domain.PackageQuestions, error)
}

// PackageRepository caches package bundles in Redis as JSON blobs and falls
// back to a loader on cache miss. Bundles are stored as:
// SET pkg:{packageID}:bundle {json} EX ttl
type PackageRepository struct {
	client *redis.Client
	loader PackageLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPackageRepository(client *redis.Client, loader PackageLoader, ttl time.Duration) *PackageRepository {
	return &PackageRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PackageRepository) GetPackageQuestions(ctx context.Context, packageID string) (domain.PackageQuestions, error) {
	key := r.bundleKey(packageID)

	raw, err := r.client.Get(ctx, key).Result()
	if err == nil && raw != "" {
		var bundle domain.PackageQuestions
		if err := json.Unmarshal([]byte(raw), &bundle); err == nil {
			return bundle, nil
		}
		// Corrupt cache entry: fall through and rebuild from the loader.
	}

	result, err, _ := r.sf.Do(packageID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := r.client.Get(ctx, key).Result()
		if err == nil && raw != "" {
			var bundle domain.PackageQuestions
			if err := json.Unmarshal([]byte(raw), &bundle); err == nil {
				return bundle, nil
			}
		}

		bundle, err := r.loader.LoadPackage(ctx, packageID)
		if err != nil {
			return domain.PackageQuestions{}, err
		}

		data, err := json.Marshal(bundle)
		if err != nil {
			return domain.PackageQuestions{}, fmt.Errorf("marshal package: %w", err)
		}
		_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()

		return bundle, nil
	})
	if err != nil {
		return domain.PackageQuestions{}, err
	}
	return result.(domain.PackageQuestions), nil
}

func (r *PackageRepository) bundleKey(packageID string) string {
	return "pkg:" + packageID + ":bundle"
}

func (r *PackageRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
