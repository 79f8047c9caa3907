package redis

import (
	"context"
	"testing"
	"time"

	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/infra/memory"
	"ethmumbai-maxi/internal/quiz"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(quiz.DefaultBank())}
	repo := NewBankRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), quiz.DefaultBankID); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("maxi:bank:ethmumbai") {
		t.Fatalf("expected bank cached in redis")
	}
	if ttl := mr.TTL("maxi:bank:ethmumbai"); ttl < time.Minute {
		t.Fatalf("expected ttl >= 1m, got %v", ttl)
	}

	bank, err := repo.GetBank(context.Background(), quiz.DefaultBankID)
	if err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if quiz.MaxScore(bank) != 100 {
		t.Fatalf("expected cached bank intact, max score %d", quiz.MaxScore(bank))
	}
}

func TestBankRepositoryIgnoresCorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	_ = mr.Set("maxi:bank:ethmumbai", "{not json")
	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(quiz.DefaultBank())}
	repo := NewBankRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), quiz.DefaultBankID); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected reload over corrupt entry, got %d", loader.calls)
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
