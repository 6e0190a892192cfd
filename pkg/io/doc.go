// Package io loads tables from external data sources.
//
// # Overview
//
// The tree builder only sees [table.Table]. This package adapts the formats a
// host hands over: delimited text, a JSON column document and the result set
// of a SQL query.
//
// # CSV
//
// [ReadCSV] and [ImportCSV] treat the header row as column names. Columns
// listed in CSVOptions.Measures become measures; the remaining columns (or
// exactly CSVOptions.Categories, in that order, when set) become categories:
//
//	tbl, err := io.ImportCSV("sales.csv", io.CSVOptions{
//	    Categories: []string{"region", "shop"},
//	    Measures:   []string{"revenue"},
//	    NullToken:  "NULL",
//	})
//
// An empty field is an explicit empty string and shows as "(Empty)". Fields
// equal to NullToken are blanks and show as "(Blank)".
//
// # JSON
//
// [ReadJSON], [ImportJSON], [WriteJSON] and [ExportJSON] use the column
// layout of [table.Table]:
//
//	{
//	  "categories": [{"name": "region", "values": ["north", null, ""]}],
//	  "measures":   [{"name": "revenue", "values": [10, 5, 2]}]
//	}
//
// JSON null stays a blank and "" stays an empty value.
//
// # SQL
//
// [QuerySQL] runs a single SELECT through gorm against sqlite or postgres
// and maps the result columns the same way as CSV headers. SQL NULL is a
// blank.
package io
