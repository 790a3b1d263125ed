package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/database"
	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
)

// CartSource produces the flat ingredient occurrences across a user's
// cart; database.ShoppingCartRepo satisfies it.
type CartSource interface {
	IngredientRows(userID uuid.UUID) ([]database.CartIngredientRow, error)
}

// ShoppingListLine is one aggregated ingredient: quantities summed per
// distinct (name, measurement unit) pair.
type ShoppingListLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

// ShoppingListService aggregates the ingredients of every recipe in a
// user's cart into a deduplicated, summed list.
type ShoppingListService struct {
	logger zerolog.Logger
	carts  CartSource
}

func NewShoppingListService(carts CartSource) *ShoppingListService {
	return &ShoppingListService{
		logger: log.With().Str("serviceName", "shoppingList").Logger(),
		carts:  carts,
	}
}

// Build returns the user's aggregated shopping list. An empty cart
// yields an empty list, not an error.
func (s *ShoppingListService) Build(userID uuid.UUID) ([]ShoppingListLine, error) {
	rows, err := s.carts.IngredientRows(userID)
	if err != nil {
		return nil, errs.NewDatabaseError("aggregate", "shopping cart", err)
	}
	return Aggregate(rows), nil
}

// Aggregate sums amounts per distinct (name, measurement unit) pair and
// sorts the result by name, then unit. The same ingredient reached via
// two different recipes collapses into one line.
func Aggregate(rows []database.CartIngredientRow) []ShoppingListLine {
	type key struct {
		name string
		unit string
	}
	totals := make(map[key]int, len(rows))
	for _, row := range rows {
		totals[key{row.Name, row.MeasurementUnit}] += row.Amount
	}

	lines := make([]ShoppingListLine, 0, len(totals))
	for k, total := range totals {
		lines = append(lines, ShoppingListLine{
			Name:            k.name,
			MeasurementUnit: k.unit,
			Total:           total,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].MeasurementUnit < lines[j].MeasurementUnit
	})
	return lines
}

// RenderShoppingList produces the plain-text download document, one
// line per aggregated ingredient.
func RenderShoppingList(user models.User, lines []ShoppingListLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s:\n\n", user.FullName())
	for _, line := range lines {
		fmt.Fprintf(&b, "%s - %d %s\n", line.Name, line.Total, line.MeasurementUnit)
	}
	return b.String()
}
