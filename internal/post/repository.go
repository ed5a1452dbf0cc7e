package post

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(p *Post) (*Post, error)
	FindByID(id uint) (*Post, error)
	ListByOwner(userID uint) ([]Post, error)
	CountByOwner(userID uint) (int64, error)
	Delete(id uint) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(p *Post) (*Post, error) {
	if err := r.db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID returns (nil, nil) when the post does not exist.
func (r *GormRepository) FindByID(id uint) (*Post, error) {
	var p Post
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) ListByOwner(userID uint) ([]Post, error) {
	var posts []Post
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GormRepository) CountByOwner(userID uint) (int64, error) {
	var n int64
	if err := r.db.Model(&Post{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepository) Delete(id uint) error {
	return r.db.Delete(&Post{}, id).Error
}
