package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/dang-matcher/internal/ai"
	"github.com/spigell/dang-matcher/internal/catalog"
	"github.com/spigell/dang-matcher/internal/matching"
	"github.com/spigell/dang-matcher/internal/photo"
	"github.com/spigell/dang-matcher/internal/profile"
	"github.com/spigell/dang-matcher/internal/questionnaire"
)

type stubAnalyzer struct {
	results    []*ai.PhotoAnalysis
	errs       []error
	calls      int
	vocabulary []string
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ *photo.Image, vocabulary []string) (*ai.PhotoAnalysis, error) {
	i := s.calls
	s.calls++
	s.vocabulary = vocabulary
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.results[i], nil
}

var img = &photo.Image{Name: "me.png", MIMEType: "image/png", Data: []byte{1}}

func testCatalog() *catalog.Catalog {
	return catalog.New("",
		&catalog.Dog{Name: "콩이", Weight: "15kg", PersonalityTags: []string{"#산책잘함", "#순둥이", "#겁쟁이"}},
		&catalog.Dog{Name: "보리", Weight: "8kg", HealthIssue: "🚨", PersonalityTags: []string{"#노견케어", "#실내정적"}},
	)
}

func mustAnswers(t *testing.T, keys ...string) questionnaire.Answers {
	t.Helper()
	answers, err := questionnaire.Parse(keys...)
	require.NoError(t, err)
	return answers
}

func TestFullFlow(t *testing.T) {
	analyzer := &stubAnalyzer{results: []*ai.PhotoAnalysis{{Summary: "차분해요", MatchedTags: []string{"#실내정적"}}}}
	s := NewSession(Deps{Catalog: testCatalog(), Analyzer: analyzer, Logger: zap.NewNop()})

	require.NotEmpty(t, s.ID())
	assert.Equal(t, StepIntro, s.Step())

	require.NoError(t, s.Start())
	assert.Equal(t, StepPhotoAnalysis, s.Step())
	assert.ErrorIs(t, s.Continue(), ErrNotAnalyzed)

	analysis, err := s.AnalyzePhoto(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "차분해요", analysis.Summary)
	assert.True(t, s.Analyzed())
	assert.Equal(t, []string{"#실내정적"}, s.Profile().Tags())
	assert.ElementsMatch(t, testCatalog().Vocabulary(), analyzer.vocabulary)

	require.NoError(t, s.Continue())
	assert.Equal(t, StepQuestionnaire, s.Step())

	ranking, err := s.SubmitAnswers(mustAnswers(t, "stay-home", "calm", "shy", "cozy", "patient"))
	require.NoError(t, err)
	assert.Equal(t, StepResults, s.Step())
	require.True(t, ranking.Found())
	assert.Equal(t, "보리", ranking.Best.Dog.Name)
	require.Len(t, ranking.RunnersUp, 1)
	assert.Equal(t, "콩이", ranking.RunnersUp[0].Dog.Name)

	again, err := s.Ranking()
	require.NoError(t, err)
	assert.Equal(t, ranking, again)

	p := s.Profile()
	assert.Equal(t, profile.SizeSmall, p.Size)
	assert.True(t, p.Care)
	assert.True(t, p.HasTag("#실내정적"))
	assert.True(t, p.HasTag("#겁쟁이"))

	require.NoError(t, s.Restart())
	assert.Equal(t, StepIntro, s.Step())
	assert.False(t, s.Analyzed())
	assert.Zero(t, s.Profile().Len())
	assert.Equal(t, profile.SizeMedium, s.Profile().Size)
	assert.False(t, s.Profile().Care)
	assert.Empty(t, s.Profile().Summary)
}

func TestFailedAnalysisLeavesProfileUntouched(t *testing.T) {
	analyzer := &stubAnalyzer{
		errs:    []error{nil, errors.New("model unavailable")},
		results: []*ai.PhotoAnalysis{{Summary: "첫 분석", MatchedTags: []string{"#순둥이"}}, nil},
	}
	s := NewSession(Deps{Catalog: testCatalog(), Analyzer: analyzer})
	require.NoError(t, s.Start())

	_, err := s.AnalyzePhoto(context.Background(), img)
	require.NoError(t, err)

	_, err = s.AnalyzePhoto(context.Background(), img)
	require.Error(t, err)

	p := s.Profile()
	assert.True(t, s.Analyzed())
	assert.Equal(t, "첫 분석", p.Summary)
	assert.Equal(t, []string{"#순둥이"}, p.Tags())
	assert.Equal(t, StepPhotoAnalysis, s.Step())
}

func TestRetryPhotoClearsAnalysis(t *testing.T) {
	analyzer := &stubAnalyzer{results: []*ai.PhotoAnalysis{
		{Summary: "one", MatchedTags: []string{"#순둥이"}},
		{Summary: "two", MatchedTags: []string{"#산책잘함"}},
	}}
	s := NewSession(Deps{Catalog: testCatalog(), Analyzer: analyzer})
	require.NoError(t, s.Start())

	_, err := s.AnalyzePhoto(context.Background(), img)
	require.NoError(t, err)

	require.NoError(t, s.RetryPhoto())
	assert.False(t, s.Analyzed())
	assert.Zero(t, s.Profile().Len())
	assert.Equal(t, StepPhotoAnalysis, s.Step())
	assert.ErrorIs(t, s.Continue(), ErrNotAnalyzed)

	_, err = s.AnalyzePhoto(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, []string{"#산책잘함"}, s.Profile().Tags())
	assert.Equal(t, "two", s.Profile().Summary)
}

func TestInvalidTransitions(t *testing.T) {
	s := NewSession(Deps{Analyzer: &stubAnalyzer{}})

	_, err := s.AnalyzePhoto(context.Background(), img)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, s.RetryPhoto(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Continue(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Restart(), ErrInvalidTransition)
	_, err = s.Ranking()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.SubmitAnswers(mustAnswers(t, "stay-home", "calm", "shy", "cozy", "patient"))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrInvalidTransition)
}

func TestSkipPhotoWithoutAnalyzer(t *testing.T) {
	s := NewSession(Deps{Catalog: testCatalog()})
	require.NoError(t, s.Start())

	assert.True(t, s.CanSkipPhoto())
	_, err := s.AnalyzePhoto(context.Background(), img)
	assert.ErrorIs(t, err, ErrAnalyzerUnavailable)

	require.NoError(t, s.Continue())
	assert.Equal(t, StepQuestionnaire, s.Step())
}

func TestEmptyCatalogReportsNoMatch(t *testing.T) {
	s := NewSession(Deps{Engine: matching.NewEngine(matching.DefaultConfig())})
	require.NoError(t, s.Start())
	require.NoError(t, s.Continue())

	ranking, err := s.SubmitAnswers(mustAnswers(t, "cafe-walk", "mixed", "depends", "modest", "coexist"))
	require.NoError(t, err)
	assert.False(t, ranking.Found())
	assert.Equal(t, StepResults, s.Step())
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "photo_analysis", StepPhotoAnalysis.String())
	assert.Equal(t, 4, StepResults.Number())
	assert.Equal(t, "step(9)", Step(9).String())
}

func TestAnalyzePhotoLogsRawResponse(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	raw := `{"summary":"차분해요","matched_tags":["#실내정적"]}`
	analyzer := &stubAnalyzer{results: []*ai.PhotoAnalysis{{Summary: "차분해요", MatchedTags: []string{"#실내정적"}, Raw: raw}}}
	s := NewSession(Deps{Catalog: testCatalog(), Analyzer: analyzer, Logger: zap.New(core)})

	require.NoError(t, s.Start())
	_, err := s.AnalyzePhoto(context.Background(), img)
	require.NoError(t, err)

	entries := observed.FilterMessage("photo analysis raw response").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, raw, fields["raw"])
	assert.Equal(t, s.ID(), fields["session_id"])
}
