package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
	output        string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a decision tree",
		Long:  `Show a decision tree and its size, optionally copying it to a JSON file or Redis`,
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
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := yaml.ReadSchemaFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Features from metadata read")
			m, err := config.loadModel(config.treeInput, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			fmt.Println(m)
			st := m.Stats()
			fmt.Printf("%d nodes: %d decisions and %d leaves, depth %d\n", st.Nodes, st.Decisions, st.Leaves, st.Depth)
			if config.output == "" {
				return
			}
			err = config.saveModel(config.output, m, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features used on the tree (required)")
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON, or redis:NAME to load it from Redis (required)")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a JSON file, or redis:NAME, to copy the tree to")
	addRedisFlags(cmd)
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if tcc.output != "" && tcc.output == tcc.treeInput {
		return fmt.Errorf("output flag cannot be the tree being read")
	}
	return nil
}
