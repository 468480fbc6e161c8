// Package gormstore keeps documents as JSON rows in a relational database
// through gorm. Writes append to a change log that ChangeMonitor turns into
// whole-collection notifications.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates the documents, change log and local storage tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&documentRow{}, &DBChange{}, &kvRow{})
}

type Collection[T store.Document] struct {
	db      *gorm.DB
	name    string
	monitor *ChangeMonitor
}

func NewCollection[T store.Document](db *gorm.DB, name string, monitor *ChangeMonitor) *Collection[T] {
	return &Collection[T]{db: db, name: name, monitor: monitor}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var rows []documentRow
	if err := c.db.WithContext(ctx).
		Where("collection = ?", c.name).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var v T
		if err := json.Unmarshal([]byte(row.Data), &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.name, row.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	var row documentRow
	err := c.db.WithContext(ctx).
		Where("collection = ? AND id = ?", c.name, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, store.ErrNotFound
	}
	if err != nil {
		return v, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	if err := json.Unmarshal([]byte(row.Data), &v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return v, nil
}

func (c *Collection[T]) Put(ctx context.Context, record T) error {
	id := record.DocumentID()
	if id == "" {
		return fmt.Errorf("put %s: document id is empty", c.name)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	now := time.Now().UTC()

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := documentRow{Collection: c.name, ID: id, Data: string(data), UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("put %s/%s: %w", c.name, id, err)
		}
		return tx.Create(&DBChange{Collection: c.name, DocumentID: id, ActionType: actionPut, ChangedAt: now}).Error
	})
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("collection = ? AND id = ?", c.name, id).Delete(&documentRow{})
		if res.Error != nil {
			return fmt.Errorf("delete %s/%s: %w", c.name, id, res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return tx.Create(&DBChange{Collection: c.name, DocumentID: id, ActionType: actionDelete, ChangedAt: time.Now().UTC()}).Error
	})
}

// OnChange reloads the collection after each batch of writes the monitor picks up.
func (c *Collection[T]) OnChange(fn func([]T)) func() {
	return c.monitor.Subscribe(c.name, func() {
		list, err := c.List(context.Background())
		if err != nil {
			utils.ErrorLogger.Printf("Error reloading %s after change: %v", c.name, err)
			return
		}
		fn(list)
	})
}

// KV is the local storage table.
type KV struct {
	db *gorm.DB
}

func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

func (k *KV) Load(ctx context.Context, key string, v any) error {
	var row kvRow
	err := k.db.WithContext(ctx).Where("`key` = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(row.Value), v)
}

func (k *KV) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	row := kvRow{Key: key, Value: string(data), UpdatedAt: time.Now().UTC()}
	return k.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (k *KV) Delete(ctx context.Context, key string) error {
	return k.db.WithContext(ctx).Where("`key` = ?", key).Delete(&kvRow{}).Error
}
