package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneActiveIndexStatements(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres", "postgresql", "sqlserver", "mssql"} {
		t.Run(dialect, func(t *testing.T) {
			statements, err := OneActiveIndexStatements(dialect)
			require.NoError(t, err)
			require.Len(t, statements, 1)
			assert.Contains(t, statements[0], OneActiveIndexName)
		})
	}

	for _, dialect := range []string{"mysql", "mariadb"} {
		t.Run(dialect, func(t *testing.T) {
			statements, err := OneActiveIndexStatements(dialect)
			require.NoError(t, err)
			require.Len(t, statements, 2)
			assert.Contains(t, statements[0], ActiveUserColumn)
			assert.Contains(t, statements[1], OneActiveIndexName)
		})
	}

	_, err := OneActiveIndexStatements("oracle")
	assert.Error(t, err)
}
