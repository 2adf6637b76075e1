package memory

import (
	"context"
	"testing"
	"time"

	"kidquiz-engine/internal/domain"
)

func TestPackageRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		PackageLoader: NewStaticPackageLoader(map[string]domain.PackageQuestions{
			"p1": samplePackage(),
		}),
	}
	repo := NewPackageRepository(loader, time.Minute)

	if _, err := repo.GetPackageQuestions(context.Background(), "p1"); err != nil {
		t.Fatalf("get package: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetPackageQuestions(context.Background(), "p1"); err != nil {
		t.Fatalf("get package 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestPackageRepositoryUnknownPackage(t *testing.T) {
	repo := NewPackageRepository(NewStaticPackageLoader(nil), time.Minute)
	if _, err := repo.GetPackageQuestions(context.Background(), "missing"); err != domain.ErrPackageNotFound {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}

type countingLoader struct {
	PackageLoader
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
