package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	setOutput     string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy datasets between backends",
		Long:  `Copy a dataset from a CSV file, a SQLite3 file, a PostgreSQL database or a MongoDB database into any of them`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
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
			config.Logf("Features from metadata read")
			input, err := config.readDataset(config.setInput, features, dataset.NewMemoryIntensive)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading input set: %v\n", err)
				os.Exit(3)
			}
			n, err := config.writeDataset(config.setOutput, features, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "dumping output set: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done: %d samples copied", n)
		},
	}
	cmd.Flags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to copy (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input (required)")
	cmd.Flags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the output set (defaults to STDOUT in CSV)")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.setInput != "" && scc.setInput == scc.setOutput {
		return fmt.Errorf("input and output flags cannot point to the same dataset")
	}
	return nil
}
