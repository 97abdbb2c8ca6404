package controllers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/utils"
)

var errSlugTaken = errors.New("slug already in use")

func slugTaken(db *gorm.DB, model any, slug string, excludeID uint) (bool, error) {
	var n int64
	q := db.Model(model).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// uniqueSlug derives a slug from want and, on collision, appends a short
// random suffix.
func uniqueSlug(db *gorm.DB, model any, want string) (string, error) {
	base := utils.Slugify(want)
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := slugTaken(db, model, candidate, 0)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		suffix, err := utils.RandomSuffix(4)
		if err != nil {
			return "", err
		}
		candidate = base + "-" + suffix
	}
	return "", errSlugTaken
}
