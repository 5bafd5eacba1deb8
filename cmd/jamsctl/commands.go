package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List loaded models",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newHTTPClient(*addr).ListModels(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%d models loaded\n", resp.Total)
			for _, m := range resp.Models {
				fmt.Printf("  %-20s %-12s %s\n", m.Name, m.Framework, m.Path)
			}
			return nil
		},
	}
}

func newPredictCmd(addr *string) *cobra.Command {
	var modelName, input string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a prediction against a loaded model",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newHTTPClient(*addr).Predict(cmd.Context(), modelName, input)
			if err != nil {
				return err
			}
			fmt.Println(resp.Output)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelName, "model", "", "Model name")
	cmd.Flags().StringVar(&input, "input", "", "JSON-encoded feature columns")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newAddModelCmd(addr *string) *cobra.Command {
	var modelName string
	cmd := &cobra.Command{
		Use:   "add-model",
		Short: "Load a new model from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newHTTPClient(*addr).AddModel(cmd.Context(), modelName); err != nil {
				return err
			}
			fmt.Printf("added %s\n", modelName)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelName, "model", "", "Model name as <framework>-<name>")
	cmd.MarkFlagRequired("model")
	return cmd
}

func newUpdateModelCmd(addr *string) *cobra.Command {
	var modelName string
	cmd := &cobra.Command{
		Use:   "update-model",
		Short: "Re-fetch and swap an already loaded model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newHTTPClient(*addr).UpdateModel(cmd.Context(), modelName); err != nil {
				return err
			}
			fmt.Printf("updated %s\n", modelName)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelName, "model", "", "Model name")
	cmd.MarkFlagRequired("model")
	return cmd
}

func newDeleteModelCmd(addr *string) *cobra.Command {
	var modelName string
	cmd := &cobra.Command{
		Use:   "delete-model",
		Short: "Evict a model from the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newHTTPClient(*addr).DeleteModel(cmd.Context(), modelName); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", modelName)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelName, "model", "", "Model name")
	cmd.MarkFlagRequired("model")
	return cmd
}
