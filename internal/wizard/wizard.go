// Package wizard drives one user through intro, photo analysis, questionnaire and results.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/dang-matcher/internal/ai"
	"github.com/spigell/dang-matcher/internal/catalog"
	"github.com/spigell/dang-matcher/internal/logger"
	"github.com/spigell/dang-matcher/internal/matching"
	"github.com/spigell/dang-matcher/internal/photo"
	"github.com/spigell/dang-matcher/internal/profile"
	"github.com/spigell/dang-matcher/internal/questionnaire"
)

// Step is a wizard state.
type Step int

const (
	StepIntro Step = iota
	StepPhotoAnalysis
	StepQuestionnaire
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepIntro:
		return "intro"
	case StepPhotoAnalysis:
		return "photo_analysis"
	case StepQuestionnaire:
		return "questionnaire"
	case StepResults:
		return "results"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Number is the 1-based position shown to the user, as in "Step 2 / 4".
func (s Step) Number() int {
	return int(s) + 1
}

// TotalSteps is the number of wizard steps.
const TotalSteps = 4

var (
	ErrInvalidTransition   = errors.New("invalid wizard transition")
	ErrNotAnalyzed         = errors.New("photo has not been analyzed yet")
	ErrAnalyzerUnavailable = errors.New("photo analyzer is not configured")
)

// Deps are the collaborators shared by every session. Analyzer may be nil when AI is disabled.
type Deps struct {
	Catalog  *catalog.Catalog
	Engine   *matching.Engine
	Analyzer ai.Analyzer
	Logger   *zap.Logger
}

// Session owns one user's profile. It is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	deps     Deps
	logger   *zap.Logger
	step     Step
	analyzed bool
	profile  *profile.Profile
	ranking  matching.Ranking
}

func NewSession(deps Deps) *Session {
	if deps.Catalog == nil {
		deps.Catalog = &catalog.Catalog{}
	}
	if deps.Engine == nil {
		deps.Engine = matching.NewEngine(matching.DefaultConfig())
	}

	id := uuid.New()
	return &Session{
		id:      id,
		deps:    deps,
		logger:  logger.WithSession(deps.Logger, id.String()),
		step:    StepIntro,
		profile: profile.New(),
	}
}

func (s *Session) ID() string { return s.id.String() }

func (s *Session) Step() Step { return s.step }

// Analyzed reports whether the photo step has a successful analysis.
func (s *Session) Analyzed() bool { return s.analyzed }

// Profile returns a copy of the accumulated profile.
func (s *Session) Profile() *profile.Profile { return s.profile.Clone() }

// CanSkipPhoto reports whether the photo step may be passed without analysis.
func (s *Session) CanSkipPhoto() bool { return s.deps.Analyzer == nil }

// Start leaves the intro.
func (s *Session) Start() error {
	if err := s.expect(StepIntro); err != nil {
		return err
	}
	s.moveTo(StepPhotoAnalysis)
	return nil
}

// AnalyzePhoto runs the analyzer on img. On success the photo tags replace any earlier ones;
// on failure the profile is left as it was and the call can be repeated.
func (s *Session) AnalyzePhoto(ctx context.Context, img *photo.Image) (*ai.PhotoAnalysis, error) {
	if err := s.expect(StepPhotoAnalysis); err != nil {
		return nil, err
	}
	if s.deps.Analyzer == nil {
		return nil, ErrAnalyzerUnavailable
	}

	analysis, err := s.deps.Analyzer.Analyze(ctx, img, s.deps.Catalog.Vocabulary())
	if err != nil {
		s.logger.Warn("photo analysis failed", zap.Error(err))
		return nil, fmt.Errorf("analyze photo: %w", err)
	}

	s.profile.ClearAnalysis()
	s.profile.Summary = analysis.Summary
	s.profile.AddTags(analysis.MatchedTags...)
	s.analyzed = true

	s.logger.Info("photo analyzed", zap.Strings("tags", analysis.MatchedTags))
	s.logger.Debug("photo analysis raw response", zap.String("raw", analysis.Raw))
	return analysis, nil
}

// RetryPhoto discards the current analysis so another photo can be analyzed.
func (s *Session) RetryPhoto() error {
	if err := s.expect(StepPhotoAnalysis); err != nil {
		return err
	}
	s.profile.ClearAnalysis()
	s.analyzed = false
	s.logger.Debug("photo analysis discarded")
	return nil
}

// Continue moves from the photo step to the questionnaire. It needs a successful analysis
// unless no analyzer is configured.
func (s *Session) Continue() error {
	if err := s.expect(StepPhotoAnalysis); err != nil {
		return err
	}
	if !s.analyzed && !s.CanSkipPhoto() {
		return ErrNotAnalyzed
	}
	s.moveTo(StepQuestionnaire)
	return nil
}

// SubmitAnswers applies the questionnaire, ranks the catalog and shows the results.
func (s *Session) SubmitAnswers(answers questionnaire.Answers) (matching.Ranking, error) {
	if err := s.expect(StepQuestionnaire); err != nil {
		return matching.Ranking{}, err
	}

	questionnaire.Apply(s.profile, answers)
	s.ranking = s.deps.Engine.Rank(s.deps.Catalog.Dogs(), s.profile)

	s.logger.Info("questionnaire submitted",
		zap.Strings("answers", answers.Keys()),
		zap.Int("tags", s.profile.Len()),
		zap.String("size", string(s.profile.Size)),
		zap.Bool("care", s.profile.Care),
	)
	if s.ranking.Found() {
		s.logger.Info("best match", zap.String("dog", s.ranking.Best.Dog.Name), zap.Int("score", s.ranking.Best.Score))
	} else {
		s.logger.Info("no match found", zap.Int("catalog_size", s.deps.Catalog.Len()))
	}

	s.moveTo(StepResults)
	return s.ranking, nil
}

// Ranking returns the results computed by SubmitAnswers.
func (s *Session) Ranking() (matching.Ranking, error) {
	if err := s.expect(StepResults); err != nil {
		return matching.Ranking{}, err
	}
	return s.ranking, nil
}

// Restart goes back to the intro and forgets everything collected so far.
func (s *Session) Restart() error {
	if err := s.expect(StepResults); err != nil {
		return err
	}
	s.profile.Reset()
	s.analyzed = false
	s.ranking = matching.Ranking{}
	s.moveTo(StepIntro)
	return nil
}

func (s *Session) expect(step Step) error {
	if s.step != step {
		return fmt.Errorf("%w: in %s, need %s", ErrInvalidTransition, s.step, step)
	}
	return nil
}

func (s *Session) moveTo(step Step) {
	s.logger.Debug("wizard step", zap.Stringer("from", s.step), zap.Stringer(logger.FieldWizardStep, step))
	s.step = step
}
