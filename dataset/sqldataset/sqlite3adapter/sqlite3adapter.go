/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a SQLite3 database.
*/
package sqlite3adapter

import (
	"database/sql"

	"github.com/pbanos/sapling/dataset/sqldataset"

	// Import of SQLite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// Dialect is the sqldataset.Dialect for SQLite3
var Dialect = sqldataset.Dialect{
	IDColumn:       `"id" INTEGER PRIMARY KEY AUTOINCREMENT`,
	DiscreteType:   "TEXT",
	ContinuousType: "REAL",
	Placeholder:    func(int) string { return "?" },
}

/*
New takes a path to a SQLite3 database file and returns
an Adapter that works on the file's database or an error
if it fails to open it as a SQLite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return sqldataset.NewAdapter(db, Dialect), nil
}
