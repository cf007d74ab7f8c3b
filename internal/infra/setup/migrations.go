package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jamal-o/blog-api/internal/domain"
)

// MigrateDB creates or updates the users, articles and article_tags tables.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	// articles before article_tags so the foreign key has a target.
	if err := db.AutoMigrate(&domain.Article{}, &domain.ArticleTag{}); err != nil {
		return fmt.Errorf("failed to migrate articles tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
