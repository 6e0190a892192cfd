package pipeline

import (
	"bytes"
	"context"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/drilltree/pkg/errors"
	dtio "github.com/matzehuels/drilltree/pkg/io"
	"github.com/matzehuels/drilltree/pkg/table"
)

// Load reads the input table described by opts without caching.
func Load(ctx context.Context, opts Options) (*table.Table, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	switch opts.InputFormat {
	case InputCSV:
		return dtio.ImportCSV(opts.Input, opts.CSV)
	case InputJSON:
		return dtio.ImportJSON(opts.Input)
	case InputSQLite, InputPostgres:
		return dtio.QuerySQL(ctx, opts.SQL)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q", opts.InputFormat)
	}
}

// encodeTable serializes a query result for the table cache.
func encodeTable(t *table.Table) ([]byte, error) {
	return msgpack.Marshal(t)
}

// decodeTable reverses encodeTable. Numbers decode as int64, uint64 or
// float64 so cell normalization sees the same types as a fresh query.
func decodeTable(data []byte) (*table.Table, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var t table.Table
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
