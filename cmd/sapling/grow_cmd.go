package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput          string
	metadataInput      string
	output             string
	classFeature       string
	defaultLabel       string
	cpuIntensiveSet    bool
	memoryIntensiveSet bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a dataset",
		Long:  `Grow a decision tree from a dataset to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err == nil {
				err = config.setup(cmd, continuousThresholdKey, minGainKey, redisAddrKey, redisKeyPrefixKey)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer config.ContextCancelFunc()()
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := yaml.ReadSchemaFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			trainingSet, err := config.readDataset(config.dataInput, features, config.datasetGenerator())
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading training set: %v\n", err)
				os.Exit(3)
			}
			m, err := sapling.Fit(config.Context(), trainingSet, features, config.classFeature, config.options(cmd)...)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done")
			config.Logf("%v", m)
			err = config.saveModel(config.output, m, features)
			if err != nil {
				fmt.Fprintf(os.Stderr, "writing the tree: %v\n", err)
				os.Exit(5)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input file (required)")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format, or redis:NAME to store it on Redis (defaults to STDOUT)")
	cmd.Flags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the generated tree should predict (required)")
	cmd.Flags().StringVarP(&(config.defaultLabel), "default", "d", "", "label to predict for samples the tree cannot place (defaults to the majority label of the input)")
	addModelFlags(cmd)
	cmd.Flags().BoolVar(&(config.memoryIntensiveSet), "memory-intensive", false, "force the use of memory-intensive subsetting to decrease time at the cost of increasing memory use")
	cmd.Flags().BoolVar(&(config.cpuIntensiveSet), "cpu-intensive", false, "force the use of cpu-intensive subsetting to decrease memory use at the cost of increasing time")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.classFeature == "" {
		return fmt.Errorf("required class-feature flag was not set")
	}
	if gcc.cpuIntensiveSet && gcc.memoryIntensiveSet {
		return fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	return nil
}

func (gcc *growCmdConfig) datasetGenerator() csv.DatasetGenerator {
	if gcc.memoryIntensiveSet {
		return dataset.NewMemoryIntensive
	}
	if gcc.cpuIntensiveSet {
		return dataset.NewCPUIntensive
	}
	return dataset.New
}

func (gcc *growCmdConfig) options(cmd *cobra.Command) []sapling.Option {
	opts := []sapling.Option{
		sapling.WithContinuousThreshold(gcc.v.GetInt(continuousThresholdKey)),
		sapling.WithMinGain(gcc.v.GetFloat64(minGainKey)),
		sapling.WithLogger(gcc.logger),
	}
	if cmd.Flags().Changed("default") {
		opts = append(opts, sapling.WithDefault(gcc.defaultLabel))
	}
	return opts
}
