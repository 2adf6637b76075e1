package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"kidquiz-engine/internal/domain"
)

// PackageLoader fetches package content from a backing store (e.g., Postgres).
type PackageLoader interface {
	LoadPackage(ctx context.Context, packageID string) (domain.PackageQuestions, error)
}

// PackageRepository caches package question bundles with TTL to avoid
// repeated DB hits while a parent runs several sessions back to back.
type PackageRepository struct {
	loader PackageLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPackage
}

type cachedPackage struct {
	bundle    domain.PackageQuestions
	expiresAt time.Time
}

func NewPackageRepository(loader PackageLoader, ttl time.Duration) *PackageRepository {
	return &PackageRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPackage),
	}
}

func (r *PackageRepository) GetPackageQuestions(ctx context.Context, packageID string) (domain.PackageQuestions, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[packageID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.bundle, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(packageID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[packageID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.bundle, nil
		}
		r.mu.RUnlock()

		bundle, err := r.loader.LoadPackage(ctx, packageID)
		if err != nil {
			return domain.PackageQuestions{}, err
		}

		r.mu.Lock()
		r.cache[packageID] = cachedPackage{
			bundle:    bundle,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bundle, nil
	})
	if err != nil {
		return domain.PackageQuestions{}, err
	}
	return result.(domain.PackageQuestions), nil
}

// StaticPackageLoader is a simple loader backed by an in-memory map (useful
// for tests/demos).
type StaticPackageLoader struct {
	packages map[string]domain.PackageQuestions
}

func NewStaticPackageLoader(packages map[string]domain.PackageQuestions) *StaticPackageLoader {
	return &StaticPackageLoader{packages: packages}
}

func (l *StaticPackageLoader) LoadPackage(_ context.Context, packageID string) (domain.PackageQuestions, error) {
	if bundle, ok := l.packages[packageID]; ok {
		return bundle, nil
	}
	return domain.PackageQuestions{}, domain.ErrPackageNotFound
}

func (r *PackageRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
