// Package ingest implements the CSV on-ramp spec.md §6 describes for
// the "Tabular CSV/TSV with header row" ingestion format: decode rows
// with gocarina/gocsv (BOM-stripped, lazy-quoted, per the teacher's
// parse.go setup), validate/coerce them into roadway.Link/Node/Shape or
// transit row types, and hand the result to Network.AssignTables /
// Feed's tables. Parquet, GeoJSON, JSON-array, and zip-container
// ingestion (spec §6) are left to a caller-supplied adapter; this
// package covers the CSV path the teacher's own parser implements.
package ingest

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"
)

func init() {
	// LazyCSVReader survives sloppy quoting; bom.NewReader strips a
	// leading UTF-8 BOM if present, mirroring parse.go's ParseStatic.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}
