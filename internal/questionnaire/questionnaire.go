// Package questionnaire maps the five personality questions onto profile tags and preferences.
package questionnaire

import (
	"fmt"
	"strings"

	"github.com/spigell/dang-matcher/internal/profile"
)

// Option is one selectable answer.
type Option struct {
	// Key is the stable identifier used on the command line.
	Key   string
	Label string
	Tags  []string
	// Size, when set, becomes the profile size preference.
	Size profile.Size
	// Care, when set, becomes the profile care-willingness flag.
	Care *bool
}

type Question struct {
	ID      string
	Label   string
	Options []Option
}

// Option returns the option with the given key.
func (q Question) Option(key string) (Option, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, o := range q.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// Keys lists option keys in display order.
func (q Question) Keys() []string {
	keys := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		keys = append(keys, o.Key)
	}
	return keys
}

// Labels lists option labels in display order.
func (q Question) Labels() []string {
	labels := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		labels = append(labels, o.Label)
	}
	return labels
}

var (
	willing   = true
	unwilling = false
)

// Questions is the fixed questionnaire, in the order it is asked.
var Questions = []Question{
	{
		ID:    "activity",
		Label: "Q1. 당신의 주말은?",
		Options: []Option{
			{Key: "stay-home", Label: "집콕하며 넷플릭스 정주행 🛋️", Tags: []string{"#실내정적", "#조용한_가족추천", "#분리불안없음"}},
			{Key: "cafe-walk", Label: "카페 투어하며 힐링 산책 ☕", Tags: []string{"#산책잘함", "#순둥이"}},
			{Key: "hiking", Label: "등산이나 러닝으로 땀 흘리기 🏃", Tags: []string{"#산책러버", "#산책마스터", "#실외배변_선호"}},
		},
	},
	{
		ID:    "temperament",
		Label: "Q2. 친구들이 말하는 나는?",
		Options: []Option{
			{Key: "calm", Label: "차분하고 조용한 편 🤫", Tags: []string{"#조용한_가족추천", "#순둥이", "#실내정적"}},
			{Key: "lively", Label: "활발하고 에너지 넘쳐 🎉", Tags: []string{"#사람좋아", "#산책잘함"}},
			{Key: "mixed", Label: "중간? 때에 따라 달라 😌", Tags: []string{"#순둥이"}},
		},
	},
	{
		ID:    "social",
		Label: "Q3. 새로운 사람을 만나면?",
		Options: []Option{
			{Key: "shy", Label: "낯을 좀 가리는 편, 천천히 친해져요 🙈", Tags: []string{"#겁쟁이", "#소심함", "#인내심필요", "#사회성기르는중", "#겁이많음"}},
			{Key: "quick", Label: "금방 친해지는 스타일! 😄", Tags: []string{"#사람좋아", "#사람손길_좋아함", "#순둥이"}},
			{Key: "depends", Label: "상대에 따라 다르게 반응해요 🤔", Tags: []string{"#순둥이", "#손길허용"}},
		},
	},
	{
		ID:    "space",
		Label: "Q4. 내가 좋아하는 분위기는?",
		Options: []Option{
			{Key: "cozy", Label: "아늑하고 포근한 공간 🕯️", Tags: []string{"#소형견"}, Size: profile.SizeSmall},
			{Key: "modest", Label: "적당히 아담한 공간 🏠", Size: profile.SizeMedium},
			{Key: "spacious", Label: "넓고 여유로운 공간 🏡", Tags: []string{"#대형견"}, Size: profile.SizeLarge},
		},
	},
	{
		ID:    "caretaking",
		Label: "Q5. 누군가 나에게 의지한다면?",
		Options: []Option{
			{Key: "patient", Label: "천천히 기다려주며 함께 성장할게요 🌱", Tags: []string{"#인내심필요", "#기다림이_필요해요", "#적응기간_필요"}, Care: &willing},
			{Key: "coexist", Label: "서로 편안하게 있고 싶어요 🌙", Tags: []string{"#순둥이", "#조용한_가족추천"}, Care: &unwilling},
			{Key: "energetic", Label: "밝은 에너지로 함께 즐기고 싶어요 ☀️", Tags: []string{"#사람좋아", "#산책잘함"}, Care: &unwilling},
		},
	},
}

// Answers holds exactly one option per question, in question order. Build it with Parse or Select.
type Answers struct {
	options []Option
}

// Parse builds answers from option keys given in question order.
func Parse(keys ...string) (Answers, error) {
	if len(keys) != len(Questions) {
		return Answers{}, fmt.Errorf("expected %d answers, got %d", len(Questions), len(keys))
	}

	options := make([]Option, len(Questions))
	for i, q := range Questions {
		o, ok := q.Option(keys[i])
		if !ok {
			return Answers{}, fmt.Errorf("%s: unknown answer %q (expected one of %s)", q.ID, keys[i], strings.Join(q.Keys(), ", "))
		}
		options[i] = o
	}

	return Answers{options: options}, nil
}

// Select builds answers from option indexes given in question order.
func Select(indexes ...int) (Answers, error) {
	if len(indexes) != len(Questions) {
		return Answers{}, fmt.Errorf("expected %d answers, got %d", len(Questions), len(indexes))
	}

	options := make([]Option, len(Questions))
	for i, q := range Questions {
		idx := indexes[i]
		if idx < 0 || idx >= len(q.Options) {
			return Answers{}, fmt.Errorf("%s: answer index %d out of range", q.ID, idx)
		}
		options[i] = q.Options[idx]
	}

	return Answers{options: options}, nil
}

// Keys returns the selected option keys in question order.
func (a Answers) Keys() []string {
	keys := make([]string, 0, len(a.options))
	for _, o := range a.options {
		keys = append(keys, o.Key)
	}
	return keys
}

// Apply adds the tags of every selected option to p and sets the size and care preferences.
// Existing tags are kept; applying the same answers again changes nothing.
func Apply(p *profile.Profile, a Answers) {
	for _, o := range a.options {
		p.AddTags(o.Tags...)
		if o.Size != "" {
			p.Size = o.Size
		}
		if o.Care != nil {
			p.Care = *o.Care
		}
	}
}
