package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	retentionSchedule = "0 3 * * *"
	retentionTimeout  = time.Minute
)

type Pinger interface {
	PingAll() int
}

type IdleConversationPruner interface {
	DeleteIdleConversations(ctx context.Context, cutoff time.Time) (int64, error)
}

// ChatKeepalive pings every live chat session; sessions that fail the ping are closed.
func ChatKeepalive(hub Pinger) func() {
	return func() {
		if closed := hub.PingAll(); closed > 0 {
			log.Printf("Running job: ChatKeepalive... closed %d dead session(s)", closed)
		}
	}
}

// PruneIdleConversations deletes conversations that never got a message and have not been
// touched for longer than retention.
func PruneIdleConversations(store IdleConversationPruner, retention time.Duration, now func() time.Time) func() {
	return func() {
		log.Println("Running job: PruneIdleConversations...")

		ctx, cancel := context.WithTimeout(context.Background(), retentionTimeout)
		defer cancel()

		deleted, err := store.DeleteIdleConversations(ctx, now().Add(-retention))
		if err != nil {
			log.Printf("🔥 Error pruning idle conversations: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("✅ Pruned %d idle conversation(s).", deleted)
		}
	}
}

// Register schedules the chat jobs on c. A zero retention disables pruning.
func Register(c *cron.Cron, hub Pinger, store IdleConversationPruner, pingSchedule string, retention time.Duration) error {
	if _, err := c.AddFunc(pingSchedule, ChatKeepalive(hub)); err != nil {
		return fmt.Errorf("schedule chat keepalive %q: %w", pingSchedule, err)
	}
	if retention <= 0 {
		log.Println("⚠️ Conversation retention disabled.")
		return nil
	}
	if _, err := c.AddFunc(retentionSchedule, PruneIdleConversations(store, retention, time.Now)); err != nil {
		return fmt.Errorf("schedule conversation pruning: %w", err)
	}
	return nil
}
