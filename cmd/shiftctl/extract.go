package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shiftsense/api-gateway/config"
	"shiftsense/api-gateway/internal/aiclient"
	"shiftsense/api-gateway/internal/extract"
	"shiftsense/api-gateway/internal/shift"
)

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract candidate shifts from a screenshot",
	Long:  "Sends a screenshot to the vision model and prints each candidate shift with its classification as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractAPIKey string
	extractModel  string
	extractYear   int
	extractRaw    bool
)

func init() {
	extractCmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	extractCmd.Flags().StringVar(&extractModel, "model", aiclient.DefaultModel, "Gemini model name")
	extractCmd.Flags().IntVar(&extractYear, "year", extract.DefaultConfig().DefaultYear, "Year assumed when the listing omits it")
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "Also print the model's raw answer")

	rootCmd.AddCommand(extractCmd)
}

type extractedShift struct {
	Candidate     shift.Candidate `json:"candidate"`
	Status        shift.Status    `json:"status"`
	Validation    string          `json:"validation_error,omitempty"`
	DurationHours float64         `json:"duration_hours"`
	Scorable      bool            `json:"scorable"`
}

type extractOutput struct {
	Shifts []extractedShift `json:"shifts"`
	Raw    string           `json:"raw,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	apiKey := extractAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	ctx := cmd.Context()
	vision, err := aiclient.NewAIClient(ctx, apiKey, extractModel, config.Log)
	if err != nil {
		return err
	}
	defer vision.Close()

	cfg := extract.DefaultConfig()
	cfg.DefaultYear = extractYear
	extractor, err := extract.New(vision, cfg, config.Log)
	if err != nil {
		return err
	}

	ex := extractor.Extract(ctx, image)
	out := extractOutput{Shifts: make([]extractedShift, 0, len(ex.Candidates))}
	for _, c := range ex.Candidates {
		cl := shift.Normalize(c)
		out.Shifts = append(out.Shifts, extractedShift{
			Candidate:     c,
			Status:        cl.Status,
			Validation:    cl.ValidationError,
			DurationHours: cl.DurationHours,
			Scorable:      cl.Scorable,
		})
	}
	if extractRaw {
		out.Raw = ex.Raw
	}

	return writeJSON(cmd, out)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
