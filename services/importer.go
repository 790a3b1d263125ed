package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platefeed/platefeed-backend/models"
)

// IngredientWriter is the bulk-insert surface the importer needs.
type IngredientWriter interface {
	AddSkipDuplicates(ingredients []models.Ingredient) (int64, error)
}

// IngredientImporter loads ingredient reference data from CSV or JSON
// files. Rows colliding with an existing (name, unit) pair are skipped,
// so re-running an import is harmless.
type IngredientImporter struct {
	logger zerolog.Logger
	store  IngredientWriter
}

func NewIngredientImporter(store IngredientWriter) *IngredientImporter {
	return &IngredientImporter{
		logger: log.With().Str("serviceName", "ingredientImporter").Logger(),
		store:  store,
	}
}

// ImportCSV reads `name,measurement_unit` rows without a header line.
func (i *IngredientImporter) ImportCSV(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	ingredients := make([]models.Ingredient, 0, len(records))
	for _, record := range records {
		ingredients = append(ingredients, models.Ingredient{
			Name:            record[0],
			MeasurementUnit: record[1],
		})
	}
	return i.write(path, ingredients)
}

// ImportJSON reads an array of {"name": ..., "measurement_unit": ...}
// objects.
func (i *IngredientImporter) ImportJSON(path string) (int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}

	var ingredients []models.Ingredient
	if err := json.Unmarshal(raw, &ingredients); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return i.write(path, ingredients)
}

func (i *IngredientImporter) write(path string, ingredients []models.Ingredient) (int64, error) {
	added, err := i.store.AddSkipDuplicates(ingredients)
	if err != nil {
		return 0, fmt.Errorf("insert ingredients from %s: %w", path, err)
	}
	i.logger.Info().
		Str("path", path).
		Int("parsed", len(ingredients)).
		Int64("added", added).
		Msg("ingredient import finished")
	return added, nil
}

// TagWriter is the bulk-insert surface the tag seeder needs.
type TagWriter interface {
	AddSkipDuplicates(tags []models.Tag) (int64, error)
}

// TagImporter seeds the tag table from a JSON file of
// {"name", "color", "slug"} objects. Rows colliding with an existing
// name, color or slug are skipped.
type TagImporter struct {
	logger zerolog.Logger
	store  TagWriter
}

func NewTagImporter(store TagWriter) *TagImporter {
	return &TagImporter{
		logger: log.With().Str("serviceName", "tagImporter").Logger(),
		store:  store,
	}
}

func (i *TagImporter) ImportJSON(path string) (int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}

	var tags []models.Tag
	if err := json.Unmarshal(raw, &tags); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, tag := range tags {
		if tag.Name == "" || tag.Slug == "" {
			return 0, fmt.Errorf("tag in %s is missing a name or slug", path)
		}
		if !models.ValidHexColor(tag.Color) {
			return 0, fmt.Errorf("tag %q in %s has invalid color %q", tag.Name, path, tag.Color)
		}
	}

	added, err := i.store.AddSkipDuplicates(tags)
	if err != nil {
		return 0, fmt.Errorf("insert tags from %s: %w", path, err)
	}
	i.logger.Info().
		Str("path", path).
		Int("parsed", len(tags)).
		Int64("added", added).
		Msg("tag import finished")
	return added, nil
}
