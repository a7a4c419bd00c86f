package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shiftsense/api-gateway/config"
	"shiftsense/api-gateway/internal/scoring"
	"shiftsense/api-gateway/internal/travel"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single shift",
	Long:  "Computes total pay, travel cost and ROI for one shift. Without a Maps key the fallback route is used.",
	RunE:  runScore,
}

var (
	scoreOrigin string
	scoreDest   string
	scoreMode   string
	scoreRate   float64
	scoreHours  float64
	scoreMapKey string
)

func init() {
	scoreCmd.Flags().StringVar(&scoreOrigin, "origin", "London, UK", "Home location")
	scoreCmd.Flags().StringVar(&scoreDest, "dest", "London", "Shift location")
	scoreCmd.Flags().StringVar(&scoreMode, "mode", string(travel.Driving), "Transport mode (driving, transit, bicycling, walking)")
	scoreCmd.Flags().Float64Var(&scoreRate, "rate", 0, "Hourly pay rate")
	scoreCmd.Flags().Float64Var(&scoreHours, "hours", 0, "Shift duration in hours")
	scoreCmd.Flags().StringVar(&scoreMapKey, "maps-key", "", "Google Maps API key (overrides GOOGLE_MAPS_API_KEY env var)")
	_ = scoreCmd.MarkFlagRequired("rate")
	_ = scoreCmd.MarkFlagRequired("hours")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	key := scoreMapKey
	if key == "" {
		key = os.Getenv("GOOGLE_MAPS_API_KEY")
	}

	var provider travel.Provider
	if key != "" {
		gm, err := travel.NewGoogleMaps(key, config.Log)
		if err != nil {
			return fmt.Errorf("failed to create maps client: %w", err)
		}
		provider = gm
	}

	res, err := scoring.New(scoring.DefaultConfig(), provider, config.Log).
		Score(cmd.Context(), scoreOrigin, scoreDest, travel.ParseMode(scoreMode), scoreRate, scoreHours)
	if err != nil {
		return err
	}
	return writeJSON(cmd, res)
}
