package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/dang-matcher/internal/ai"
	"github.com/spigell/dang-matcher/internal/photo"
	"github.com/spigell/dang-matcher/internal/utils"
)

// ErrInvalidResponse is returned when the model answer is not the expected JSON object.
var ErrInvalidResponse = errors.New("invalid photo analysis response")

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, attachments ...InlineData) (string, error)
}

// Analyzer implements ai.Analyzer on top of a Gemini generator.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	vocabularyKey       = "{{TAG_VOCABULARY}}"
)

var _ ai.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, img *photo.Image, vocabulary []string) (*ai.PhotoAnalysis, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("photo is required")
	}

	prompt := buildPrompt(vocabulary)

	a.logger.Debug("gemini photo analysis request",
		zap.String("photo", img.Name),
		zap.String("mime_type", img.MIMEType),
		zap.Int("photo_bytes", len(img.Data)),
		zap.Int("vocabulary_size", len(vocabulary)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt, InlineData{MIMEType: img.MIMEType, Data: img.Data})
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini photo analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	analysis, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if unknown := outsideVocabulary(analysis.MatchedTags, vocabulary); len(unknown) > 0 {
		a.logger.Warn("model returned tags outside the catalog vocabulary", zap.Strings("tags", unknown))
	}

	analysis.Raw = raw
	return analysis, nil
}

func buildPrompt(vocabulary []string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Tags:\n" + vocabularyKey + "\n\nJSON Response with summary and matched_tags:"
	}
	return strings.ReplaceAll(template, vocabularyKey, strings.Join(vocabulary, ", "))
}

type analysisPayload struct {
	Summary     string   `mapstructure:"summary"`
	MatchedTags []string `mapstructure:"matched_tags"`
}

func parseResponse(raw string) (*ai.PhotoAnalysis, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	for _, key := range []string{"summary", "matched_tags"} {
		if _, ok := data[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidResponse, key)
		}
	}

	var payload analysisPayload
	if err := mapstructure.Decode(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: empty summary", ErrInvalidResponse)
	}

	tags := normalizeTags(payload.MatchedTags)
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no matched tags", ErrInvalidResponse)
	}

	return &ai.PhotoAnalysis{Summary: summary, MatchedTags: tags}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func outsideVocabulary(tags, vocabulary []string) []string {
	known := make(map[string]struct{}, len(vocabulary))
	for _, tag := range vocabulary {
		known[tag] = struct{}{}
	}

	var unknown []string
	for _, tag := range tags {
		if _, ok := known[tag]; !ok {
			unknown = append(unknown, tag)
		}
	}
	return unknown
}
