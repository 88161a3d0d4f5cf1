package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/corpgpt/auth-service/internal/core/domain"
	"github.com/corpgpt/auth-service/internal/infrastructure/db/memory"
)

func TestDispatcher_PersistsEntries(t *testing.T) {
	repo := memory.NewAuditRepository()
	d := NewDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEntry{Actor: "alice@corp.com", Action: domain.AuditLogin, At: time.Now()})
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := repo.List(context.Background(), 100)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) == 10 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("entries were not persisted in time")
}

func TestDispatcher_ShardIsStablePerActor(t *testing.T) {
	d := NewDispatcher(4, memory.NewAuditRepository(), zerolog.Nop())

	first := d.shardIndex("alice@corp.com")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("alice@corp.com"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, memory.NewAuditRepository(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
