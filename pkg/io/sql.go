package io

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/table"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLOptions describes a query used as a table source.
type SQLOptions struct {
	// Driver is DriverSQLite or DriverPostgres.
	Driver string
	// DSN is the data source name: a file path for sqlite, a connection
	// string for postgres.
	DSN string
	// Query is a single SELECT (or WITH) statement.
	Query string
	// Args are bound to the query's placeholders.
	Args []any
	// Categories and Measures select result columns as in [CSVOptions].
	Categories []string
	Measures   []string
}

// Validate checks the options without touching the database.
func (o SQLOptions) Validate() error {
	if o.DSN == "" {
		return errors.New(errors.ErrCodeInvalidInput, "sql data source name is required")
	}
	if _, err := dialector(o.Driver, o.DSN); err != nil {
		return err
	}
	return errors.ValidateQuery(o.Query)
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported sql driver %q", driver)
	}
}

// QuerySQL opens the database, runs the query and converts the result set
// into a table. SQL NULL becomes a blank cell; byte slices become strings.
// The connection is closed before QuerySQL returns.
func QuerySQL(ctx context.Context, opts SQLOptions) (*table.Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dial, _ := dialector(opts.Driver, opts.DSN)

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	defer sqlDB.Close()

	return queryTable(db.WithContext(ctx), opts)
}

func queryTable(db *gorm.DB, opts SQLOptions) (*table.Table, error) {
	rows, err := db.Raw(opts.Query, opts.Args...).Rows()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "run query")
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	plan, err := planColumns(header, opts.Categories, opts.Measures)
	if err != nil {
		return nil, err
	}

	t := plan.newTable(0)
	cells := make([]any, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	row := make([]any, len(header))
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, c := range cells {
			if b, ok := c.([]byte); ok {
				c = string(b)
			}
			row[i] = c
		}
		plan.appendRow(t, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return t, nil
}
