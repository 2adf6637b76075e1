package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"kidquiz-engine/internal/domain"
	"kidquiz-engine/internal/infra/memory"
)

func TestPackageRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		PackageLoader: memory.NewStaticPackageLoader(map[string]domain.PackageQuestions{
			"p1": samplePackage(),
		}),
	}
	repo := NewPackageRepository(client, loader, time.Minute)

	bundle, err := repo.GetPackageQuestions(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get package: %v", err)
	}
	if len(bundle.Questions) != 1 || bundle.Questions[0].ID != "q1" {
		t.Fatalf("unexpected bundle %+v", bundle)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("pkg:p1:bundle") {
		t.Fatalf("expected bundle cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	if _, err := repo.GetPackageQuestions(context.Background(), "p1"); err != nil {
		t.Fatalf("get package 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestPackageRepositoryLoaderError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewPackageRepository(newClient(mr), memory.NewStaticPackageLoader(nil), time.Minute)
	if _, err := repo.GetPackageQuestions(context.Background(), "missing"); err != domain.ErrPackageNotFound {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}

type countingLoader struct {
	memory.PackageLoader
	calls int
}

func (l *countingLoader) LoadPackage(ctx context.Context, packageID string) (domain.PackageQuestions, error) {
	l.calls++
	return l.PackageLoader.LoadPackage(ctx, packageID)
}

func samplePackage() domain.PackageQuestions {
	return domain.PackageQuestions{
		Package: domain.Package{ID: "p1", Name: "Math basics", Order: domain.OrderSequential},
		Questions: []domain.Question{
			{
				ID:           "q1",
				Prompt:       "What is 2 + 2?",
				Points:       1,
				TimeLimitSec: 10,
				PackageID:    "p1",
				Options: []domain.Option{
					{ID: "o1", Text: "3", Correct: false},
					{ID: "o2", Text: "4", Correct: true},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
