/*
Package csv provides functions to read datasets from and write them to
CSV streams.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

const (
	// UndefinedValue is the cell content for a missing value
	UndefinedValue = "?"
	// WeightColumn is the header of the optional column holding the
	// weight of each sample. Rows of files without it weigh 1.
	WeightColumn = "_counts"
)

/*
Writer is an interface for a dataset to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given number
	// of samples and will return the actually written
	// number of samples and an error (if not all samples
	// could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

/*
DatasetGenerator is a function that takes a slice of samples
and generates a dataset with them.
*/
type DatasetGenerator func([]dataset.Sample) dataset.Dataset

type csvWriter struct {
	count    int
	features feature.Schema
	weighted bool
	w        *csv.Writer
}

/*
ReadDataset takes a context.Context, an io.Reader for a CSV stream, a schema
and a DatasetGenerator and returns the dataset.Dataset built with the
DatasetGenerator and the samples parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of the
names of features in the schema, optionally with a WeightColumn. The rest of
the rows should consist of valid values for their features and/or the
UndefinedValue string to indicate an undefined value. Features of the schema
missing from the header are undefined for every sample.
*/
func ReadDataset(ctx context.Context, reader io.Reader, features feature.Schema, dg DatasetGenerator) (dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadDatasetBySample(ctx, reader, features, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
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

/*
ReadDatasetBySample takes a context.Context, an io.Reader for a CSV stream,
a schema and a lambda function on an integer and a dataset.Sample that
returns a boolean value. It parses the samples from the reader and for each
it calls the lambda function with its index and the sample as parameters.
If the lambda function returns true, it will continue processing the next
sample, otherwise it will stop. An error is returned if something goes wrong
when reading the stream or parsing a sample, or if the context is done
before the stream is over.

The expected format is the one described for ReadDataset.
*/
func ReadDatasetBySample(ctx context.Context, reader io.Reader, features feature.Schema, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseColumnsFromCSVHeader(header, features)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, columns)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a context.Context, a filepath string, a schema
and a DatasetGenerator, opens the file to which the filepath points to and
uses ReadDataset to return a dataset.Dataset or an error read from it. If
the filepath is "" os.Stdin is read instead. It will return an error if the
given filepath cannot be opened for reading.
*/
func ReadDatasetFromFilePath(ctx context.Context, filepath string, features feature.Schema, dg DatasetGenerator) (dataset.Dataset, error) {
	f, err := open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := ReadDataset(ctx, f, features, dg)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
ReadDatasetBySampleFromFilePath takes a context.Context, a filepath string
for a CSV stream, a schema and a lambda function and behaves as
ReadDatasetBySample on the contents of the file. If the filepath is ""
os.Stdin is read instead.
*/
func ReadDatasetBySampleFromFilePath(ctx context.Context, filepath string, features feature.Schema, lambda func(int, dataset.Sample) (bool, error)) error {
	f, err := open(filepath)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReadDatasetBySample(ctx, f, features, lambda)
}

func open(filepath string) (*os.File, error) {
	if filepath == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %v", err)
	}
	return f, nil
}

/*
NewWriter takes an io.Writer, a schema and whether to write sample weights
and returns a Writer that will write any samples on the io.Writer, with a
header for the features in the schema followed by WeightColumn if weighted
is true.
*/
func NewWriter(writer io.Writer, features feature.Schema, weighted bool) (Writer, error) {
	w := csv.NewWriter(writer)
	record := features.Names()
	if weighted {
		record = append(record, WeightColumn)
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, weighted: weighted, w: w}, nil
}

/*
WriteCSVDataset takes a context.Context, a writer, a dataset.Dataset, a
schema and whether to write sample weights and dumps to the writer the
dataset in CSV format, specifying only the features in the given schema for
the samples. It returns an error if something went wrong when writing to the
writer, or codifying the samples.
*/
func WriteCSVDataset(ctx context.Context, writer io.Writer, s dataset.Dataset, features feature.Schema, weighted bool) error {
	cw, err := NewWriter(writer, features, weighted)
	if err != nil {
		return err
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

// column is a CSV column: a feature or, with a nil feature, the weight
type column struct {
	feature feature.Feature
}

func parseColumnsFromCSVHeader(header []string, features feature.Schema) ([]column, error) {
	columns := make([]column, 0, len(header))
	seen := make(map[string]bool)
	for _, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("parsing header: column %s appears twice", name)
		}
		seen[name] = true
		if name == WeightColumn {
			columns = append(columns, column{})
			continue
		}
		f, ok := features.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
		}
		columns = append(columns, column{f})
	}
	return columns, nil
}

func parseSampleFromCSVRow(row []string, columns []column) (dataset.Sample, error) {
	if len(row) != len(columns) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(columns), len(row))
	}
	featureValues := make(map[string]interface{})
	weight := 1.0
	for i, c := range columns {
		v := row[i]
		if c.feature == nil {
			w, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("converting weight %s to float64: %v", v, err)
			}
			weight = w
			continue
		}
		f := c.feature
		var value interface{}
		var err error
		if v != UndefinedValue {
			if f.Kind() == feature.Continuous {
				value, err = strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("converting %s to float64: %v", v, err)
				}
			} else {
				value = v
			}
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", value, value, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	return dataset.NewWeightedSample(featureValues, weight), nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n, s := range samples {
		err := cw.writeSample(ctx, s)
		if err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(ctx context.Context, sample dataset.Sample) error {
	record := make([]string, len(cw.features), len(cw.features)+1)
	for j, f := range cw.features {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		if v == nil {
			record[j] = UndefinedValue
		} else {
			record[j] = feature.ValueKey(v)
		}
	}
	if cw.weighted {
		record = append(record, strconv.FormatFloat(sample.Weight(), 'g', -1, 64))
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
