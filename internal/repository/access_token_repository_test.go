package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lshigami/quizgate/internal/model"
	"github.com/lshigami/quizgate/internal/testutil"
)

func seedTest(t *testing.T, repo TestRepository) *model.Test {
	t.Helper()
	test := &model.Test{Title: "Go basics", Category: model.CategoryTechnical, Mode: model.ModeExam, Level: model.LevelBeginner, Duration: 30}
	if err := repo.Create(context.Background(), test); err != nil {
		t.Fatalf("create test: %v", err)
	}
	return test
}

func TestMarkUsedSingleWinner(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	test := seedTest(t, NewTestRepository(db))
	repo := NewAccessTokenRepository(db)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := &model.TestAccessToken{CandidateEmail: "a@example.com", TestID: test.ID, ExpirationTime: now.Add(time.Hour)}
	if err := repo.Create(ctx, tok); err != nil {
		t.Fatalf("create token: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("token value not generated")
	}

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.MarkUsed(ctx, tok.Token, nil, now)
			if err != nil {
				t.Errorf("mark used: %v", err)
				return
			}
			if ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}

	got, err := repo.FindByToken(ctx, tok.Token)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.IsUsed {
		t.Fatal("token should be used")
	}
}

func TestMarkUsedRejectsExpired(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	test := seedTest(t, NewTestRepository(db))
	repo := NewAccessTokenRepository(db)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := &model.TestAccessToken{CandidateEmail: "a@example.com", TestID: test.ID, ExpirationTime: now.Add(-time.Minute)}
	if err := repo.Create(ctx, tok); err != nil {
		t.Fatalf("create token: %v", err)
	}
	ok, err := repo.MarkUsed(ctx, tok.Token, nil, now)
	if err != nil {
		t.Fatalf("mark used: %v", err)
	}
	if ok {
		t.Fatal("expired token must not be redeemed")
	}
}

func TestFindReusable(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	test := seedTest(t, NewTestRepository(db))
	repo := NewAccessTokenRepository(db)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	used := &model.TestAccessToken{CandidateEmail: "a@example.com", TestID: test.ID, ExpirationTime: now.Add(time.Hour), IsUsed: true}
	expired := &model.TestAccessToken{CandidateEmail: "a@example.com", TestID: test.ID, ExpirationTime: now.Add(-time.Hour)}
	for _, tok := range []*model.TestAccessToken{used, expired} {
		if err := repo.Create(ctx, tok); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := repo.FindReusable(ctx, "a@example.com", test.ID, now); err == nil {
		t.Fatal("expected no reusable token")
	}

	fresh := &model.TestAccessToken{CandidateEmail: "a@example.com", TestID: test.ID, ExpirationTime: now.Add(2 * time.Hour)}
	if err := repo.Create(ctx, fresh); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.FindReusable(ctx, "a@example.com", test.ID, now)
	if err != nil {
		t.Fatalf("find reusable: %v", err)
	}
	if got.Token != fresh.Token {
		t.Fatalf("got token %s, want %s", got.Token, fresh.Token)
	}
}
