// Package catalog holds the fixed list of snacks sold at the counter.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"snack-counter/internal/models"
	"snack-counter/internal/validation"
)

// Catalog is an immutable, id-ordered set of snack definitions
type Catalog struct {
	snacks []models.SnackDef
	byID   map[int]models.SnackDef
}

// Default returns the counter's standard price table
func Default() []models.SnackDef {
	return []models.SnackDef{
		{ID: 1, Name: "Popcorn", Price: 1000},
		{ID: 2, Name: "Soda", Price: 500},
		{ID: 3, Name: "Nachos", Price: 1500},
		{ID: 4, Name: "Chips", Price: 800},
		{ID: 5, Name: "Hotdog", Price: 2000},
	}
}

// New validates the snacks and builds a catalog. Ids must be exactly 1..N.
func New(snacks []models.SnackDef) (*Catalog, error) {
	if len(snacks) == 0 {
		return nil, validation.ValidationError{
			Field:   "catalog",
			Message: "catalog cannot be empty",
		}
	}

	sorted := make([]models.SnackDef, len(snacks))
	copy(sorted, snacks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[int]models.SnackDef, len(sorted))
	for i, snack := range sorted {
		field := fmt.Sprintf("catalog[%d]", i)

		if snack.ID != i+1 {
			return nil, validation.ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("ids must be unique and run from 1 to %d, got %d", len(sorted), snack.ID),
			}
		}
		if strings.TrimSpace(snack.Name) == "" {
			return nil, validation.ValidationError{
				Field:   field + ".name",
				Message: "snack name is required",
			}
		}
		if snack.Price < 0 {
			return nil, validation.ValidationError{
				Field:   field + ".price",
				Message: "snack price cannot be negative",
			}
		}

		byID[snack.ID] = snack
	}

	return &Catalog{snacks: sorted, byID: byID}, nil
}

// List returns the snacks in ascending id order
func (c *Catalog) List() []models.SnackDef {
	snacks := make([]models.SnackDef, len(c.snacks))
	copy(snacks, c.snacks)
	return snacks
}

// FindByID looks up a snack by its id
func (c *Catalog) FindByID(id int) (models.SnackDef, bool) {
	snack, ok := c.byID[id]
	return snack, ok
}
