package database

import (
	"fmt"

	"github.com/yeremiapane/bakery-app/identity/local"
	"github.com/yeremiapane/bakery-app/store/gormstore"
	"github.com/yeremiapane/bakery-app/utils"
	"gorm.io/gorm"
)

// Options picks which table sets a deployment owns.
type Options struct {
	Documents     bool
	LocalIdentity bool
}

// AutoMigrate creates the tables of the enabled components.
func AutoMigrate(db *gorm.DB, opts Options) error {
	if opts.Documents {
		if err := gormstore.Migrate(db); err != nil {
			return fmt.Errorf("migrate document store: %w", err)
		}
	}
	if opts.LocalIdentity {
		if err := local.Migrate(db); err != nil {
			return fmt.Errorf("migrate users: %w", err)
		}
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
