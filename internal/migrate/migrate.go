package migrate

import (
	"gorm.io/gorm"

	"social-api/internal/post"
	"social-api/internal/user"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&post.Post{},
	)
}
