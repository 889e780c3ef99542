package ai

import (
	"context"

	"github.com/spigell/dang-matcher/internal/photo"
)

// PhotoAnalysis is what the model says about the person in a photo.
type PhotoAnalysis struct {
	Summary     string
	MatchedTags []string
	Raw         string
}

// Analyzer reads a photo and picks tags from vocabulary. Any failure is returned as an error
// and no partial analysis is produced.
type Analyzer interface {
	Analyze(ctx context.Context, img *photo.Image, vocabulary []string) (*PhotoAnalysis, error)
}
