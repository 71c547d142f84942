package data

import (
	"embed"
	"fmt"
	"strings"
)

// OneActiveIndexName names the index that keeps a single active intention per user.
const OneActiveIndexName = "idx_intentions_one_active"

// ActiveUserColumn is the generated column MySQL and MariaDB index instead of
// a partial index, which neither supports.
const ActiveUserColumn = "active_user_id"

//go:embed indexes/*.sql
var indexFS embed.FS

// OneActiveIndexStatements returns the DDL statements that create the
// partial unique index on intentions for the named gorm dialect.
func OneActiveIndexStatements(dialect string) ([]string, error) {
	switch dialect {
	case "mariadb":
		dialect = "mysql"
	case "mssql":
		dialect = "sqlserver"
	case "postgresql":
		dialect = "postgres"
	}

	raw, err := indexFS.ReadFile("indexes/" + dialect + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no index DDL for dialect %q: %w", dialect, err)
	}

	var statements []string
	for _, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}
