// Package ledger records exported clips and their OCR readings in SQLite.
//
// The database lives at <state_dir>/ledger.db. Schema changes ship as
// numbered files under migrations/ and are applied in order on Open.
package ledger
