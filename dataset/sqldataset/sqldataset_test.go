package sqldataset

import (
	"context"
	"fmt"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

var (
	outlook = feature.NewDiscreteFeature("outlook", nil)
	temp    = feature.NewContinuousFeature("temp")
	schema  = feature.Schema{outlook, temp}

	numbered = Dialect{
		IDColumn:       `"id" SERIAL PRIMARY KEY`,
		DiscreteType:   "TEXT",
		ContinuousType: "DOUBLE PRECISION",
		Placeholder:    func(i int) string { return fmt.Sprintf("$%d", i) },
	}
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		got  func() (string, error)
		want string
	}{
		{
			"create table",
			func() (string, error) { return CreateTableStatement(numbered, schema) },
			`CREATE TABLE IF NOT EXISTS samples("outlook" TEXT NULL, "temp" DOUBLE PRECISION NULL, "_counts" DOUBLE PRECISION NOT NULL DEFAULT 1, "id" SERIAL PRIMARY KEY)`,
		},
		{
			"insert",
			func() (string, error) { return InsertStatement(numbered, schema, 2) },
			`INSERT INTO samples ("outlook", "temp", "_counts") VALUES ($1, $2, $3), ($4, $5, $6)`,
		},
		{
			"select",
			func() (string, error) { return SelectStatement(schema) },
			`SELECT "outlook", "temp", "_counts" FROM samples ORDER BY "id"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.got()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("statement =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"outlook", false},
		{"with space", false},
		{"id", true},
		{"_counts", true},
		{`bad"name`, true},
	}
	for _, tt := range tests {
		c, err := ColumnName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ColumnName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err == nil && c != tt.name {
			t.Errorf("ColumnName(%q) = %q", tt.name, c)
		}
	}
	if _, err := CreateTableStatement(numbered, feature.Schema{feature.NewDiscreteFeature("id", nil)}); err == nil {
		t.Error("CreateTableStatement() with a reserved feature name expected an error")
	}
}

// memoryAdapter keeps rows in a slice as a samples table would
type memoryAdapter struct {
	created bool
	rows    [][]interface{}
}

func (ma *memoryAdapter) ColumnName(name string) (string, error) {
	return ColumnName(name)
}

func (ma *memoryAdapter) CreateSampleTable(context.Context, feature.Schema) error {
	ma.created = true
	return nil
}

func (ma *memoryAdapter) AddSamples(_ context.Context, _ feature.Schema, rows [][]interface{}) (int, error) {
	ma.rows = append(ma.rows, rows...)
	return len(rows), nil
}

func (ma *memoryAdapter) IterateOnSamples(_ context.Context, _ feature.Schema, lambda func([]interface{}) (bool, error)) error {
	for _, r := range ma.rows {
		ok, err := lambda(r)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}

func (ma *memoryAdapter) Close() error {
	return nil
}

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	a := &memoryAdapter{}
	ds := dataset.New([]dataset.Sample{
		dataset.NewWeightedSample(map[string]interface{}{"outlook": "sunny", "temp": 30.0}, 2),
		dataset.NewSample(map[string]interface{}{"outlook": "rain"}),
	})
	n, err := Write(ctx, a, schema, ds)
	if err != nil || n != 2 {
		t.Fatalf("Write() = %d, %v, want 2", n, err)
	}
	if !a.created {
		t.Error("Write() did not create the samples table")
	}
	back, err := Read(ctx, a, schema, nil)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	samples, _ := back.Samples(ctx)
	if len(samples) != 2 {
		t.Fatalf("Read() got %d samples, want 2", len(samples))
	}
	if v, _ := samples[0].ValueFor(ctx, temp); v != 30.0 || samples[0].Weight() != 2 {
		t.Errorf("first sample temp %v weight %v, want 30 and 2", v, samples[0].Weight())
	}
	if v, _ := samples[1].ValueFor(ctx, temp); v != nil {
		t.Errorf("second sample temp = %v, want undefined", v)
	}
}

func TestReadRejectsInvalidValues(t *testing.T) {
	a := &memoryAdapter{rows: [][]interface{}{{"sunny", "hot", 1.0}}}
	if _, err := Read(context.Background(), a, schema, nil); err == nil {
		t.Error("Read() with a string value for a continuous feature expected an error")
	}
}
