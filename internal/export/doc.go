// Package export renders record collections as CSV and XLSX.
//
// A Projection is an ordered list of columns, each with a header and a
// value function. WriteCSV uses encoding/csv, so fields holding commas,
// quotes or newlines are quoted and re-parse to their original values.
// WriteXLSX writes the same projection to a single-sheet workbook with
// numeric columns stored as numbers.
//
// The fixed projections (Customers, Orders, Inventory, Feedback, Audit,
// Invoices) carry the headers operators already use in their sheets.
package export
