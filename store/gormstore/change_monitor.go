package gormstore

import (
	"sort"
	"sync"
	"time"

	"github.com/yeremiapane/bakery-app/utils"
	"gorm.io/gorm"
)

// ChangeMonitor polls the change log and wakes up the subscribers of every
// collection that was written since the last tick.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
	// Retention is how long processed changes stay in the log before Poll deletes them.
	Retention time.Duration

	now         func() time.Time
	lastPrune   time.Time
	mu          sync.Mutex
	nextID      int
	subscribers map[string]map[int]func()
	stopOnce    sync.Once
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:          db,
		StopChan:    make(chan struct{}),
		Interval:    1 * time.Second,
		Retention:   10 * time.Minute,
		now:         time.Now,
		subscribers: make(map[string]map[int]func()),
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.Poll()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() { close(cm.StopChan) })
}

// Subscribe registers fn for writes to collection.
func (cm *ChangeMonitor) Subscribe(collection string, fn func()) func() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.subscribers[collection] == nil {
		cm.subscribers[collection] = make(map[int]func())
	}
	id := cm.nextID
	cm.nextID++
	cm.subscribers[collection][id] = fn
	return func() {
		cm.mu.Lock()
		defer cm.mu.Unlock()
		delete(cm.subscribers[collection], id)
	}
}

// Poll processes pending changes once. Start calls it on every tick.
func (cm *ChangeMonitor) Poll() {
	cm.prune()

	var changes []DBChange

	// Gunakan transaction untuk mencegah race condition
	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("id ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}
	if len(changes) == 0 {
		tx.Rollback()
		return
	}

	ids := make([]uint, 0, len(changes))
	touched := make(map[string]struct{})
	for _, change := range changes {
		ids = append(ids, change.ID)
		touched[change.Collection] = struct{}{}
	}

	if err := tx.Model(&DBChange{}).
		Where("id IN ?", ids).
		Update("processed", true).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error marking changes as processed: %v", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		return
	}

	collections := make([]string, 0, len(touched))
	for name := range touched {
		collections = append(collections, name)
	}
	sort.Strings(collections)

	for _, name := range collections {
		for _, fn := range cm.subscribersOf(name) {
			fn()
		}
	}
	utils.InfoLogger.Debugf("Processed %d document changes across %d collections", len(changes), len(collections))
}

// prune deletes processed changes older than Retention, at most once per minute.
func (cm *ChangeMonitor) prune() {
	// Change rows are stamped in UTC.
	now := cm.now().UTC()
	if cm.Retention <= 0 || now.Sub(cm.lastPrune) < time.Minute {
		return
	}
	cm.lastPrune = now

	res := cm.DB.Where("processed = ? AND changed_at < ?", true, now.Add(-cm.Retention)).Delete(&DBChange{})
	if res.Error != nil {
		utils.ErrorLogger.Printf("Error pruning change log: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Debugf("Pruned %d processed document changes", res.RowsAffected)
	}
}

func (cm *ChangeMonitor) subscribersOf(collection string) []func() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	ids := make([]int, 0, len(cm.subscribers[collection]))
	for id := range cm.subscribers[collection] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, cm.subscribers[collection][id])
	}
	return fns
}
