package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/platefeed-backend/models"
)

type mockIngredientWriter struct {
	addSkipDuplicatesFunc func(ingredients []models.Ingredient) (int64, error)
}

func (m *mockIngredientWriter) AddSkipDuplicates(ingredients []models.Ingredient) (int64, error) {
	return m.addSkipDuplicatesFunc(ingredients)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportCSV(t *testing.T) {
	path := writeTempFile(t, "ingredients.csv", "flour,g\negg,pcs\n")

	var written []models.Ingredient
	store := &mockIngredientWriter{
		addSkipDuplicatesFunc: func(ingredients []models.Ingredient) (int64, error) {
			written = ingredients
			return int64(len(ingredients)), nil
		},
	}

	importer := NewIngredientImporter(store)

	count, err := importer.ImportCSV(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.Len(t, written, 2)
	assert.Equal(t, "flour", written[0].Name)
	assert.Equal(t, "g", written[0].MeasurementUnit)
	assert.Equal(t, "egg", written[1].Name)
	assert.Equal(t, "pcs", written[1].MeasurementUnit)
}

func TestImportCSVRejectsWrongColumnCount(t *testing.T) {
	path := writeTempFile(t, "ingredients.csv", "flour,g,extra\n")

	importer := NewIngredientImporter(&mockIngredientWriter{})

	_, err := importer.ImportCSV(path)
	require.Error(t, err)
}

func TestImportJSON(t *testing.T) {
	path := writeTempFile(t, "ingredients.json",
		`[{"name":"flour","measurement_unit":"g"},{"name":"egg","measurement_unit":"pcs"}]`)

	var written []models.Ingredient
	store := &mockIngredientWriter{
		addSkipDuplicatesFunc: func(ingredients []models.Ingredient) (int64, error) {
			written = ingredients
			return int64(len(ingredients)), nil
		},
	}

	importer := NewIngredientImporter(store)

	count, err := importer.ImportJSON(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, written, 2)
	assert.Equal(t, "flour", written[0].Name)
}

type mockTagWriter struct {
	addSkipDuplicatesFunc func(tags []models.Tag) (int64, error)
}

func (m *mockTagWriter) AddSkipDuplicates(tags []models.Tag) (int64, error) {
	return m.addSkipDuplicatesFunc(tags)
}

func TestImportTagsJSON(t *testing.T) {
	path := writeTempFile(t, "tags.json",
		`[{"name":"breakfast","color":"#E26C2D","slug":"breakfast"},{"name":"dinner","color":"#49B64E","slug":"dinner"}]`)

	var written []models.Tag
	store := &mockTagWriter{
		addSkipDuplicatesFunc: func(tags []models.Tag) (int64, error) {
			written = tags
			return int64(len(tags)), nil
		},
	}

	count, err := NewTagImporter(store).ImportJSON(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.Len(t, written, 2)
	assert.Equal(t, "breakfast", written[0].Name)
	assert.Equal(t, "#E26C2D", written[0].Color)
	assert.Equal(t, "dinner", written[1].Slug)
}

func TestImportTagsRejectsBadRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid color", `[{"name":"breakfast","color":"orange","slug":"breakfast"}]`},
		{"missing slug", `[{"name":"breakfast","color":"#E26C2D","slug":""}]`},
		{"missing name", `[{"name":"","color":"#E26C2D","slug":"breakfast"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "tags.json", tt.content)

			inserted := false
			store := &mockTagWriter{
				addSkipDuplicatesFunc: func(tags []models.Tag) (int64, error) {
					inserted = true
					return 0, nil
				},
			}

			_, err := NewTagImporter(store).ImportJSON(path)
			require.Error(t, err)
			assert.False(t, inserted, "invalid files insert nothing")
		})
	}
}

func TestImportReportsSkippedDuplicates(t *testing.T) {
	path := writeTempFile(t, "ingredients.csv", "flour,g\nflour,g\n")

	store := &mockIngredientWriter{
		addSkipDuplicatesFunc: func(ingredients []models.Ingredient) (int64, error) {
			// The unique index swallows the second row
			return 1, nil
		},
	}

	importer := NewIngredientImporter(store)

	count, err := importer.ImportCSV(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
