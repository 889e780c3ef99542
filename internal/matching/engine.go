// Package matching scores catalog dogs against a user profile and ranks them.
package matching

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/dang-matcher/internal/catalog"
	"github.com/spigell/dang-matcher/internal/profile"
)

const (
	priorityBonus = 2
	sizeBonus     = 3
	careBonus     = 2
	urgencyBonus  = 1

	smallMaxKg  = 10
	mediumMaxKg = 20
)

// Config carries the locale-specific tag and marker lists. Empty lists fall back to the defaults.
type Config struct {
	PriorityTags   []string `mapstructure:"priority-tags"`
	CareTags       []string `mapstructure:"care-tags"`
	UrgencyMarkers []string `mapstructure:"urgency-markers"`
	RunnersUp      int      `mapstructure:"runners-up"`
}

// DefaultConfig returns the shelter's standard weighting.
func DefaultConfig() Config {
	return Config{
		PriorityTags:   []string{"#임보급구", "#평생가족_급구", "#겁쟁이", "#소심함", "#인내심필요"},
		CareTags:       []string{"#노견케어", "#살찌우기프로젝트"},
		UrgencyMarkers: []string{"🚨", "임박", "시급"},
		RunnersUp:      3,
	}
}

// Engine scores dogs. It holds no per-session state and is safe to share.
type Engine struct {
	priority  map[string]struct{}
	care      []string
	urgency   []string
	runnersUp int
}

func NewEngine(cfg Config) *Engine {
	defaults := DefaultConfig()

	if len(cfg.PriorityTags) == 0 {
		cfg.PriorityTags = defaults.PriorityTags
	}
	if len(cfg.CareTags) == 0 {
		cfg.CareTags = defaults.CareTags
	}
	if len(cfg.UrgencyMarkers) == 0 {
		cfg.UrgencyMarkers = defaults.UrgencyMarkers
	}
	if cfg.RunnersUp <= 0 {
		cfg.RunnersUp = defaults.RunnersUp
	}

	priority := make(map[string]struct{}, len(cfg.PriorityTags))
	for _, tag := range cfg.PriorityTags {
		priority[tag] = struct{}{}
	}

	urgency := make([]string, 0, len(cfg.UrgencyMarkers))
	for _, marker := range cfg.UrgencyMarkers {
		if marker != "" {
			urgency = append(urgency, marker)
		}
	}

	return &Engine{
		priority:  priority,
		care:      cfg.CareTags,
		urgency:   urgency,
		runnersUp: cfg.RunnersUp,
	}
}

// Result is the score of one dog for one profile.
type Result struct {
	Dog         *catalog.Dog `json:"dog"`
	Score       int          `json:"score"`
	MatchedTags []string     `json:"matched_tags"`
}

// Score adds up tag overlap, priority, size, care and urgency points for dog.
func (e *Engine) Score(dog *catalog.Dog, p *profile.Profile) Result {
	matched := matchedTags(dog, p)
	score := len(matched)

	for _, tag := range matched {
		if _, ok := e.priority[tag]; ok {
			score += priorityBonus
		}
	}

	if sizeFits(p.Size, ParseWeight(dog.Weight)) {
		score += sizeBonus
	}

	if p.Care && e.needsCare(dog) {
		score += careBonus
	}

	if e.isUrgent(dog.HealthIssue) {
		score += urgencyBonus
	}

	return Result{Dog: dog, Score: score, MatchedTags: matched}
}

func matchedTags(dog *catalog.Dog, p *profile.Profile) []string {
	seen := make(map[string]struct{}, len(dog.PersonalityTags))
	matched := make([]string, 0, len(dog.PersonalityTags))

	for _, tag := range dog.PersonalityTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if p.HasTag(tag) {
			matched = append(matched, tag)
		}
	}

	sort.Strings(matched)
	return matched
}

func sizeFits(size profile.Size, kg int) bool {
	switch size {
	case profile.SizeSmall:
		return kg <= smallMaxKg
	case profile.SizeMedium:
		return kg > smallMaxKg && kg <= mediumMaxKg
	case profile.SizeLarge:
		return kg > mediumMaxKg
	default:
		return false
	}
}

func (e *Engine) needsCare(dog *catalog.Dog) bool {
	for _, tag := range e.care {
		if dog.HasTag(tag) {
			return true
		}
	}
	return false
}

func (e *Engine) isUrgent(healthIssue string) bool {
	for _, marker := range e.urgency {
		if strings.Contains(healthIssue, marker) {
			return true
		}
	}
	return false
}

// ParseWeight reads the first run of digits in s as kilograms. "15kg" is 15, "7.5kg" is 7,
// and text without digits is 0.
func ParseWeight(s string) int {
	start := strings.IndexFunc(s, isDigit)
	if start == -1 {
		return 0
	}

	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}

	kg, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return kg
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
