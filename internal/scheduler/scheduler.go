package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tanakh-review/api/internal/model"
	"gorm.io/gorm"
)

// TokenJanitor periodically deletes refresh tokens that are expired or
// revoked. Logins keep inserting rows forever otherwise.
type TokenJanitor struct {
	db       *gorm.DB
	interval time.Duration
	running  bool
	lastRun  time.Time
	purged   int64
	mu       sync.Mutex
	stopChan chan struct{}
}

type JanitorConfig struct {
	Interval time.Duration
}

func NewTokenJanitor(db *gorm.DB, cfg JanitorConfig) *TokenJanitor {
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}

	return &TokenJanitor{
		db:       db,
		interval: cfg.Interval,
		stopChan: make(chan struct{}),
	}
}

func (j *TokenJanitor) Start(ctx context.Context) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	log.Printf("[Janitor] Starting with interval %v", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Janitor] Context cancelled, stopping")
			return
		case <-j.stopChan:
			log.Println("[Janitor] Stop signal received")
			return
		case <-ticker.C:
			j.purgeExpired(ctx)
		}
	}
}

func (j *TokenJanitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		close(j.stopChan)
		j.running = false
		log.Println("[Janitor] Stopped")
	}
}

func (j *TokenJanitor) purgeExpired(ctx context.Context) {
	result := j.db.WithContext(ctx).
		Where("expires_at < ? OR revoked = ?", time.Now(), true).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		log.Printf("[Janitor] Failed to purge refresh tokens: %v", result.Error)
		return
	}

	j.mu.Lock()
	j.lastRun = time.Now()
	j.purged += result.RowsAffected
	j.mu.Unlock()

	if result.RowsAffected > 0 {
		log.Printf("[Janitor] Purged %d refresh tokens", result.RowsAffected)
	}
}

func (j *TokenJanitor) GetStatus() map[string]interface{} {
	j.mu.Lock()
	defer j.mu.Unlock()

	return map[string]interface{}{
		"enabled":     true,
		"running":     j.running,
		"interval":    j.interval.String(),
		"lastRun":     j.lastRun,
		"totalPurged": j.purged,
	}
}
