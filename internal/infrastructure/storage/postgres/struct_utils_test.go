package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"procura/internal/core/entity"
	"procura/internal/core/id"
)

type mockCatalog struct {
	entity.BaseCatalog
	Code  string  `db:"code" json:"code"`
	Name  string  `db:"name" json:"name"`
	Email *string `db:"email" json:"email,omitempty"`
	Skip  string  `db:"-" json:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name", "email",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap(t *testing.T) {
	email := "sales@acme.test"
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code:  "VEN-0001",
		Name:  "Acme Supplies",
		Email: &email,
		Skip:  "ignored",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "VEN-0001", m["code"])
	assert.Equal(t, "Acme Supplies", m["name"])
	assert.Equal(t, &email, m["email"])
	_, ok := m["-"]
	assert.False(t, ok)
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &mockCatalog{Code: "X"}
	m := StructToMap(cat)
	assert.Equal(t, "X", m["code"])
}
