package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
)

type reorderItem struct {
	ID        FlexibleID `json:"id"`
	SortOrder *int       `json:"sort_order"`
}

// bindReorder accepts either a bare array of {id, sort_order} or
// {"items": [...]}, and returns ids in their requested order. Missing
// sort_order values fall back to the array position.
func bindReorder(c *gin.Context) ([]uint, bool) {
	var items []reorderItem
	if err := c.ShouldBindBodyWith(&items, binding.JSON); err != nil {
		var wrapped struct {
			Items []reorderItem `json:"items"`
		}
		if c.ShouldBindBodyWith(&wrapped, binding.JSON) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		items = wrapped.Items
	}
	ids, err := orderedIDs(items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return ids, true
}

func orderedIDs(items []reorderItem) ([]uint, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no items to reorder")
	}
	type pos struct {
		id    uint
		order int
	}
	seenID := make(map[uint]struct{}, len(items))
	seenOrder := make(map[int]struct{}, len(items))
	list := make([]pos, 0, len(items))
	for i, it := range items {
		id := uint(it.ID)
		if id == 0 {
			return nil, fmt.Errorf("item %d: invalid id", i)
		}
		if _, dup := seenID[id]; dup {
			return nil, fmt.Errorf("duplicate id %d", id)
		}
		seenID[id] = struct{}{}

		order := i
		if it.SortOrder != nil {
			order = *it.SortOrder
		}
		if _, dup := seenOrder[order]; dup {
			return nil, fmt.Errorf("duplicate sort_order %d", order)
		}
		seenOrder[order] = struct{}{}
		list = append(list, pos{id: id, order: order})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].order < list[j].order })

	ids := make([]uint, len(list))
	for i, p := range list {
		ids[i] = p.id
	}
	return ids, nil
}

// applyOrder writes sort_order = position for each id inside one
// transaction. Rows not listed keep their relative order and follow the
// listed ones, so positions stay dense across the collection. An id that
// matches no row aborts and rolls back the whole batch.
func applyOrder(ctx context.Context, db *gorm.DB, model any, ids []uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for pos, id := range ids {
			res := tx.Model(model).Where("id = ?", id).Update("sort_order", pos)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("reorder id %d: %w", id, ErrNotFound)
			}
		}

		var rest []uint
		if err := tx.Model(model).
			Where("id NOT IN ?", ids).
			Order("sort_order ASC, id ASC").
			Pluck("id", &rest).Error; err != nil {
			return err
		}
		for i, id := range rest {
			if err := tx.Model(model).Where("id = ?", id).Update("sort_order", len(ids)+i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// nextSortOrder returns the position after the current last item.
func nextSortOrder(db *gorm.DB, model any) (int, error) {
	var last int
	if err := db.Model(model).Select("COALESCE(MAX(sort_order), -1)").Scan(&last).Error; err != nil {
		return 0, err
	}
	return last + 1, nil
}
