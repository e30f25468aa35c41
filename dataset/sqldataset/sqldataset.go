/*
Package sqldataset provides functions to store datasets on SQL databases
and load them back.

Samples are stored on a single samples table, with a column per feature
(TEXT for discrete features, floating point for continuous ones), a column
with the sample weight and an auto-incremented id that keeps the insertion
order. Undefined values are stored as NULL.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

const (
	// SampleTable is the name of the table holding the samples
	SampleTable = "samples"
	// WeightColumn is the name of the column holding sample weights
	WeightColumn = "_counts"
	idColumn     = "id"

	// MaxSampleInsertionsPerStatement is the maximum number
	// of samples that are inserted with a single insert
	// command. Adding more will result in making more
	// insertion commands.
	MaxSampleInsertionsPerStatement = 10
)

/*
Dialect holds what differs between the SQL databases supported: the types
of columns and how statement placeholders are written.
*/
type Dialect struct {
	// IDColumn is the definition of the auto-incremented
	// primary key column named "id"
	IDColumn string
	// DiscreteType is the type of discrete feature columns
	DiscreteType string
	// ContinuousType is the type of continuous feature and
	// weight columns
	ContinuousType string
	// Placeholder returns the placeholder for the i-th
	// (starting at 1) value of a statement
	Placeholder func(i int) string
}

/*
Adapter is an interface providing the methods
needed to store and retrieve samples with a database backend.
*/
type Adapter interface {
	// ColumnName returns the column name for a feature
	// or an error if the name cannot be used for a column
	ColumnName(string) (string, error)
	// CreateSampleTable ensures the samples table
	// exists with the columns for the given features
	CreateSampleTable(context.Context, feature.Schema) error
	// AddSamples inserts rows of values, given in the
	// order of the schema followed by the weight, and
	// returns the number of rows inserted
	AddSamples(context.Context, feature.Schema, [][]interface{}) (int, error)
	// IterateOnSamples calls lambda with the values of
	// every row of the samples table, in the order of
	// the schema followed by the weight, until lambda
	// returns false or an error.
	IterateOnSamples(context.Context, feature.Schema, func([]interface{}) (bool, error)) error
	// Close releases the database connection
	Close() error
}

type adapter struct {
	db      *sql.DB
	dialect Dialect
}

/*
NewAdapter takes a database connection and a Dialect and returns an Adapter
that works on the connection issuing statements for the dialect.
*/
func NewAdapter(db *sql.DB, d Dialect) Adapter {
	return &adapter{db, d}
}

/*
Write takes a context.Context, an Adapter, a schema and a dataset and stores
the samples in the dataset with their values for the features in the schema
and their weights, creating the samples table if needed. It returns the
number of samples stored and an error if not all of them could be.
*/
func Write(ctx context.Context, a Adapter, features feature.Schema, s dataset.Dataset) (int, error) {
	err := a.CreateSampleTable(ctx, features)
	if err != nil {
		return 0, err
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return 0, err
	}
	rows := make([][]interface{}, 0, len(samples))
	for _, smpl := range samples {
		row := make([]interface{}, 0, len(features)+1)
		for _, f := range features {
			v, err := smpl.ValueFor(ctx, f)
			if err != nil {
				return 0, err
			}
			row = append(row, v)
		}
		rows = append(rows, append(row, smpl.Weight()))
	}
	return a.AddSamples(ctx, features, rows)
}

/*
Read takes a context.Context, an Adapter, a schema and a generator of
datasets and returns the dataset generated with the samples stored in the
database, in insertion order, or an error if they cannot be read or hold
values not valid for their features.
If dg is nil, dataset.New is used.
*/
func Read(ctx context.Context, a Adapter, features feature.Schema, dg func([]dataset.Sample) dataset.Dataset) (dataset.Dataset, error) {
	var samples []dataset.Sample
	err := a.IterateOnSamples(ctx, features, func(row []interface{}) (bool, error) {
		values := make(map[string]interface{}, len(features))
		for i, f := range features {
			if ok, err := f.Valid(row[i]); !ok {
				return false, fmt.Errorf("reading sample %d: %v", len(samples)+1, err)
			}
			values[f.Name()] = row[i]
		}
		w, _ := row[len(features)].(float64)
		samples = append(samples, dataset.NewWeightedSample(values, w))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if dg == nil {
		dg = dataset.New
	}
	return dg(samples), nil
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	return ColumnName(featureName)
}

/*
ColumnName returns the column name for a feature name, or an error if the
name is reserved or contains a '"' character.
*/
func ColumnName(featureName string) (string, error) {
	if featureName == idColumn || featureName == WeightColumn {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, features feature.Schema) error {
	stmt, err := CreateTableStatement(a.dialect, features)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddSamples(ctx context.Context, features feature.Schema, rows [][]interface{}) (int, error) {
	if len(features) == 0 {
		return 0, fmt.Errorf("no features to store")
	}
	var added int
	for added < len(rows) {
		end := added + MaxSampleInsertionsPerStatement
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[added:end]
		stmt, err := InsertStatement(a.dialect, features, len(chunk))
		if err != nil {
			return added, err
		}
		values := make([]interface{}, 0, len(chunk)*(len(features)+1))
		for _, r := range chunk {
			values = append(values, r...)
		}
		_, err = a.db.ExecContext(ctx, stmt, values...)
		if err != nil {
			return added, fmt.Errorf("inserting samples %d to %d: %v", added+1, end, err)
		}
		added = end
	}
	return added, nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, features feature.Schema, lambda func([]interface{}) (bool, error)) error {
	query, err := SelectStatement(features)
	if err != nil {
		return err
	}
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		discrete := make([]sql.NullString, len(features))
		continuous := make([]sql.NullFloat64, len(features))
		var weight sql.NullFloat64
		dest := make([]interface{}, 0, len(features)+1)
		for i, f := range features {
			if f.Kind() == feature.Continuous {
				dest = append(dest, &continuous[i])
			} else {
				dest = append(dest, &discrete[i])
			}
		}
		dest = append(dest, &weight)
		err = rows.Scan(dest...)
		if err != nil {
			return fmt.Errorf("scanning sample: %v", err)
		}
		row := make([]interface{}, len(features)+1)
		for i, f := range features {
			if f.Kind() == feature.Continuous {
				if continuous[i].Valid {
					row[i] = continuous[i].Float64
				}
			} else if discrete[i].Valid {
				row[i] = discrete[i].String
			}
		}
		row[len(features)] = 1.0
		if weight.Valid {
			row[len(features)] = weight.Float64
		}
		ok, err := lambda(row)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return rows.Err()
}

func (a *adapter) Close() error {
	return a.db.Close()
}

/*
CreateTableStatement returns the statement creating the samples table for
the given dialect and schema, or an error if a feature name cannot be used
as column name.
*/
func CreateTableStatement(d Dialect, features feature.Schema) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("CREATE TABLE IF NOT EXISTS " + SampleTable + "(")
	for _, f := range features {
		c, err := ColumnName(f.Name())
		if err != nil {
			return "", err
		}
		t := d.DiscreteType
		if f.Kind() == feature.Continuous {
			t = d.ContinuousType
		}
		buf.WriteString(fmt.Sprintf(`"%s" %s NULL, `, c, t))
	}
	buf.WriteString(fmt.Sprintf(`"%s" %s NOT NULL DEFAULT 1, `, WeightColumn, d.ContinuousType))
	buf.WriteString(d.IDColumn + ")")
	return buf.String(), nil
}

/*
InsertStatement returns the statement inserting n samples for the given
dialect and schema, or an error if a feature name cannot be used as column
name.
*/
func InsertStatement(d Dialect, features feature.Schema, n int) (string, error) {
	columns, err := quotedColumns(features)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.WriteString("INSERT INTO " + SampleTable + " (" + strings.Join(columns, ", ") + ") VALUES ")
	p := 1
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(d.Placeholder(p))
			p++
		}
		buf.WriteString(")")
	}
	return buf.String(), nil
}

/*
SelectStatement returns the query listing the values and weight of every
sample in insertion order, or an error if a feature name cannot be used as
column name.
*/
func SelectStatement(features feature.Schema) (string, error) {
	columns, err := quotedColumns(features)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT %s FROM %s ORDER BY "%s"`, strings.Join(columns, ", "), SampleTable, idColumn), nil
}

func quotedColumns(features feature.Schema) ([]string, error) {
	columns := make([]string, 0, len(features)+1)
	for _, f := range features {
		c, err := ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
		columns = append(columns, `"`+c+`"`)
	}
	return append(columns, `"`+WeightColumn+`"`), nil
}
