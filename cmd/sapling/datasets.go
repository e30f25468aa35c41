package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongodataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature"
	mgo "gopkg.in/mgo.v2"
)

type backend int

const (
	csvBackend backend = iota
	sqlite3Backend
	postgreSQLBackend
	mongoDBBackend
)

func (b backend) String() string {
	switch b {
	case sqlite3Backend:
		return "SQLite3"
	case postgreSQLBackend:
		return "PostgreSQL"
	case mongoDBBackend:
		return "MongoDB"
	}
	return "CSV"
}

// backendFor tells the kind of storage a dataset location refers to:
// PostgreSQL and MongoDB connection URLs, SQLite3 .db files or anything
// else as a CSV file, "" being STDIN or STDOUT.
func backendFor(location string) backend {
	switch {
	case strings.HasPrefix(location, "postgresql://"), strings.HasPrefix(location, "postgres://"):
		return postgreSQLBackend
	case strings.HasPrefix(location, "mongodb://"):
		return mongoDBBackend
	case strings.HasSuffix(location, ".db"):
		return sqlite3Backend
	}
	return csvBackend
}

func (rcc *rootCmdConfig) readDataset(input string, features feature.Schema, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	if dg == nil {
		dg = dataset.New
	}
	ctx := rcc.Context()
	switch b := backendFor(input); b {
	case sqlite3Backend, postgreSQLBackend:
		rcc.Logf("Creating %v adapter for %s to read dataset...", b, input)
		adapter, err := sqlAdapter(b, input)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.Read(ctx, adapter, features, dg)
	case mongoDBBackend:
		rcc.Logf("Connecting to MongoDB at %s to read dataset...", input)
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		mds, err := mongodataset.Open(ctx, session, features)
		if err != nil {
			return nil, err
		}
		samples, err := mds.Samples(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading dataset from MongoDB: %v", err)
		}
		return dg(samples), nil
	}
	if input == "" {
		rcc.Logf("Reading dataset from STDIN...")
	} else {
		rcc.Logf("Opening %s to read dataset...", input)
	}
	return csv.ReadDatasetFromFilePath(ctx, input, features, dg)
}

func (rcc *rootCmdConfig) writeDataset(output string, features feature.Schema, ds dataset.Dataset) (int, error) {
	ctx := rcc.Context()
	switch b := backendFor(output); b {
	case sqlite3Backend, postgreSQLBackend:
		rcc.Logf("Creating %v adapter for %s to dump dataset...", b, output)
		adapter, err := sqlAdapter(b, output)
		if err != nil {
			return 0, err
		}
		defer adapter.Close()
		return sqldataset.Write(ctx, adapter, features, ds)
	case mongoDBBackend:
		rcc.Logf("Connecting to MongoDB at %s to dump dataset...", output)
		session, err := mgo.Dial(output)
		if err != nil {
			return 0, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		mds, err := mongodataset.Open(ctx, session, features)
		if err != nil {
			return 0, err
		}
		samples, err := ds.Samples(ctx)
		if err != nil {
			return 0, err
		}
		return mds.Write(ctx, samples)
	}
	f := os.Stdout
	if output != "" {
		rcc.Logf("Creating %s to dump dataset...", output)
		var err error
		f, err = os.Create(output)
		if err != nil {
			return 0, err
		}
		defer f.Close()
	}
	weighted, err := isWeighted(rcc, ds)
	if err != nil {
		return 0, err
	}
	err = csv.WriteCSVDataset(ctx, f, ds, features, weighted)
	if err != nil {
		return 0, err
	}
	return ds.Count(ctx)
}

func sqlAdapter(b backend, location string) (sqldataset.Adapter, error) {
	if b == postgreSQLBackend {
		return pgadapter.New(location)
	}
	return sqlite3adapter.New(location)
}

func isWeighted(rcc *rootCmdConfig, ds dataset.Dataset) (bool, error) {
	samples, err := ds.Samples(rcc.Context())
	if err != nil {
		return false, err
	}
	for _, s := range samples {
		if s.Weight() != 1.0 {
			return true, nil
		}
	}
	return false, nil
}
