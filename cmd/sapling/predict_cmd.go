package main

import (
	"fmt"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/inputsample"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/pbanos/sapling/tree"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
	dataInput     string
}

type stdoutFeatureValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a label for samples",
		Long: `Use the loaded tree to predict the label of a sample answering only the questions the tree asks about its features,
or print the prediction for every sample in a CSV file`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err == nil {
				err = config.setup(cmd, undefinedValueKey, redisAddrKey, redisKeyPrefixKey)
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
			if config.dataInput != "" {
				err = config.predictAll(m, features)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(4)
				}
				return
			}
			undefinedValue := config.v.GetString(undefinedValueKey)
			sample := inputsample.New(os.Stdin, features, stdoutFeatureValueRequester(undefinedValue), undefinedValue)
			prediction, err := m.Predict(config.Context(), sample)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			fmt.Printf("Predicted %s is %s\n", m.Label().Name(), prediction)
		},
	}
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features used on the tree (required)")
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON, or redis:NAME to load it from Redis (required)")
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", "path to a CSV file with samples to predict labels for, one per line (defaults to asking for a single sample on STDIN)")
	cmd.Flags().StringP(undefinedValueKey, "u", "?", "value to input to define a sample's value for a feature as undefined")
	addRedisFlags(cmd)
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

func (pcc *predictCmdConfig) predictAll(m *tree.Model, features feature.Schema) error {
	ctx := pcc.Context()
	return csv.ReadDatasetBySampleFromFilePath(ctx, pcc.dataInput, features, func(i int, s dataset.Sample) (bool, error) {
		p, err := m.Predict(ctx, s)
		if err != nil {
			return false, fmt.Errorf("predicting sample %d: %v", i+1, err)
		}
		fmt.Println(p)
		return true, nil
	})
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		if len(f.AvailableValues()) == 0 {
			fmt.Printf("Please provide the sample's %s:\n(or %s if undefined)\n", f.Name(), string(sfvr))
			return nil
		}
		fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value interface{}) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
