package migrations

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The schema mirrors rules the service layer enforces; these assertions keep
// the two layers from drifting apart.
func TestInitSchemaGuards(t *testing.T) {
	data, err := os.ReadFile("001_init.sql")
	require.NoError(t, err)
	schema := string(data)

	// Sections and materials come up CLOSED until explicitly opened.
	assert.Equal(t, 2, strings.Count(schema, "DEFAULT 'CLOSED'"))
	assert.NotContains(t, schema, "DEFAULT 'OPEN'")

	assert.Contains(t, schema, "last_update >= creation_date")
	assert.Contains(t, schema, "payment_type <> 'FULL' OR payments_left = 0")
	assert.Contains(t, schema, "media_exactly_one_ref")
}
