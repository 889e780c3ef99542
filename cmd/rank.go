package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/dang-matcher/internal/ai"
	"github.com/spigell/dang-matcher/internal/matching"
	"github.com/spigell/dang-matcher/internal/photo"
	"github.com/spigell/dang-matcher/internal/profile"
	"github.com/spigell/dang-matcher/internal/questionnaire"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var errAnalyzerDisabled = errors.New("photo analysis is disabled")

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the catalog for the answers given as flags, without prompts",
	Example: "  dang-matcher rank --photo me.jpg --activity stay-home --temperament calm " +
		"--social shy --space cozy --caretaking patient",
	Run: func(cmd *cobra.Command, _ []string) {
		rankFromFlags(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("photo", "p", "", "photo to analyze (jpg or png). Default is unset, ranking uses answers only.")
	rankCmd.Flags().StringP("output", "o", outputText, "output format: text or json")

	for _, q := range questionnaire.Questions {
		rankCmd.Flags().String(q.ID, "", fmt.Sprintf("%s (one of %s)", q.Label, strings.Join(q.Keys(), ", ")))
		rankCmd.MarkFlagRequired(q.ID)
	}
}

func rankFromFlags(cmd *cobra.Command) {
	ctx := context.Background()

	app := newApplication(ctx, true)

	keys := make([]string, 0, len(questionnaire.Questions))
	for _, q := range questionnaire.Questions {
		keys = append(keys, cmd.Flag(q.ID).Value.String())
	}

	answers, err := questionnaire.Parse(keys...)
	if err != nil {
		app.logger.Fatal("parsing answers", zap.Error(err))
	}

	output := cmd.Flag("output").Value.String()
	if output != outputText && output != outputJSON {
		app.logger.Fatal("unsupported output format", zap.String("output", output))
	}

	ranking, analysis, err := rank(ctx, app, cmd.Flag("photo").Value.String(), answers)
	if err != nil {
		app.logger.Fatal("ranking failed", zap.Error(err),
			zap.String("hint", "check the photo and ai section, or drop --photo to rank by answers only"))
	}

	if err := writeRanking(cmd.OutOrStdout(), app, output, analysis, ranking); err != nil {
		app.logger.Fatal("writing result", zap.Error(err))
	}
}

// rank builds a fresh profile from an optional photo plus answers and ranks the catalog for it.
func rank(ctx context.Context, app *application, photoPath string, answers questionnaire.Answers) (matching.Ranking, *ai.PhotoAnalysis, error) {
	p := profile.New()

	var analysis *ai.PhotoAnalysis
	if photoPath = strings.TrimSpace(photoPath); photoPath != "" {
		if app.analyzer == nil {
			return matching.Ranking{}, nil, errAnalyzerDisabled
		}

		img, err := photo.Load(photoPath, app.maxPhotoBytes())
		if err != nil {
			return matching.Ranking{}, nil, err
		}

		ctx, cancel := app.analysisContext(ctx)
		defer cancel()

		analysis, err = app.analyzer.Analyze(ctx, img, app.catalog.Vocabulary())
		if err != nil {
			return matching.Ranking{}, nil, fmt.Errorf("analyze photo: %w", err)
		}

		p.Summary = analysis.Summary
		p.AddTags(analysis.MatchedTags...)
	}

	questionnaire.Apply(p, answers)

	app.logger.Debug("ranking profile",
		zap.Strings("tags", p.Tags()),
		zap.String("size", string(p.Size)),
		zap.Bool("care", p.Care),
	)

	return app.engine.Rank(app.catalog.Dogs(), p), analysis, nil
}

func writeRanking(w io.Writer, app *application, output string, analysis *ai.PhotoAnalysis, ranking matching.Ranking) error {
	if output == outputJSON {
		return renderRankingJSON(w, ranking)
	}

	if analysis != nil {
		renderAnalysis(w, analysis)
	}
	renderRanking(w, app.catalog, ranking)
	return nil
}
