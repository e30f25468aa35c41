package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sapling/feature/yaml"
	"github.com/pbanos/sapling/tree"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	dataInput     string
	metadataInput string
	baselineInput string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a testing dataset, optionally comparing it with always predicting the majority label of a training dataset`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err == nil {
				err = config.setup(cmd, redisAddrKey, redisKeyPrefixKey)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer config.ContextCancelFunc()()
			features, err := yaml.ReadSchemaFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			m, err := config.loadModel(config.treeInput, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			testingSet, err := config.readDataset(config.dataInput, features, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading testing set: %v\n", err)
				os.Exit(4)
			}
			count, err := testingSet.Count(config.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting testing set samples: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Testing tree against testing set with %d samples...", count)
			successRate, err := m.Test(config.Context(), testingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Done")
			fmt.Printf("%f success rate\n", successRate)
			if config.baselineInput == "" {
				return
			}
			trainingSet, err := config.readDataset(config.baselineInput, features, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading baseline training set: %v\n", err)
				os.Exit(7)
			}
			baseline, err := tree.Majority(config.Context(), trainingSet, m.Label())
			if err != nil {
				fmt.Fprintf(os.Stderr, "building baseline: %v\n", err)
				os.Exit(8)
			}
			baselineRate, err := baseline.Test(config.Context(), testingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing baseline: %v\n", err)
				os.Exit(9)
			}
			fmt.Printf("%f success rate predicting always %s\n", baselineRate, baseline.Default())
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input file (required)")
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON, or redis:NAME to load it from Redis (required)")
	cmd.Flags().StringVarP(&(config.baselineInput), "baseline", "b", "", "location of a training dataset whose majority label is tested as baseline")
	addRedisFlags(cmd)
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if tcc.baselineInput != "" && tcc.baselineInput == tcc.dataInput {
		return fmt.Errorf("input and baseline flags cannot point to the same dataset")
	}
	return nil
}
