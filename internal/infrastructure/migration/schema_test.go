package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/catalog"
	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/order"
	"github.com/vendora/backend/internal/domain/review"
	"gorm.io/gorm/schema"
)

var createTablePattern = regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\);`)

// sqlTableColumns extracts table -> column names from the schema migration
func sqlTableColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)

	tables := make(map[string]map[string]bool)
	for _, match := range createTablePattern.FindAllStringSubmatch(string(raw), -1) {
		columns := make(map[string]bool)
		for _, line := range strings.Split(match[2], "\n") {
			fields := strings.Fields(strings.TrimSpace(line))
			if len(fields) == 0 {
				continue
			}
			columns[strings.TrimSuffix(fields[0], ",")] = true
		}
		tables[match[1]] = columns
	}
	return tables
}

// The sqlite tests build their schema from the models via AutoMigrate, so
// they cannot catch the SQL migration drifting from the GORM column
// mapping. This cross-checks the two directly.
func TestMigrationMatchesModelColumns(t *testing.T) {
	models := []interface{}{
		&identity.User{},
		&catalog.Category{},
		&catalog.Product{},
		&review.Review{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	}

	sqlTables := sqlTableColumns(t)
	cache := &sync.Map{}

	for _, model := range models {
		parsed, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		t.Run(parsed.Table, func(t *testing.T) {
			sqlColumns, ok := sqlTables[parsed.Table]
			require.True(t, ok, "table %s missing from migration", parsed.Table)

			modelColumns := make(map[string]bool)
			for dbName := range parsed.FieldsByDBName {
				modelColumns[dbName] = true
				assert.True(t, sqlColumns[dbName],
					"column %s.%s mapped by the model but absent from the migration", parsed.Table, dbName)
			}

			for column := range sqlColumns {
				assert.True(t, modelColumns[column],
					"column %s.%s created by the migration but unmapped by the model", parsed.Table, column)
			}
		})
	}
}
