package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/example/snapedit/internal/editor"
	"github.com/example/snapedit/internal/script"
)

var (
	flagInput  string
	flagScript string
	flagOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Apply an edit script to an image and write the JPEG",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input image (PNG, JPEG or GIF)")
	renderCmd.Flags().StringVarP(&flagScript, "script", "s", "", "YAML edit script; omit for a plain re-encode")
	renderCmd.Flags().StringVarP(&flagOutput, "output", "o", "out.jpg", "output JPEG path")
	_ = renderCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	imageData, err := os.ReadFile(flagInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var scriptData []byte
	if flagScript != "" {
		scriptData, err = os.ReadFile(flagScript)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
	}
	sc, err := script.Parse(scriptData)
	if err != nil {
		return err
	}

	sess, err := editor.NewFromBytes(imageData, editor.WithConfig(cfg))
	if err != nil {
		return err
	}
	if err := sc.Apply(sess); err != nil {
		return err
	}

	data, err := sess.Export(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.WriteFile(flagOutput, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"input":  flagInput,
		"output": flagOutput,
		"bytes":  len(data),
	}).Info("render written")
	return nil
}
