package matching

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/dang-matcher/internal/catalog"
	"github.com/spigell/dang-matcher/internal/profile"
)

func newProfile(size profile.Size, care bool, tags ...string) *profile.Profile {
	p := profile.New()
	p.Size = size
	p.Care = care
	p.AddTags(tags...)
	return p
}

func TestParseWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect int
	}{
		{input: "15kg", expect: 15},
		{input: "kg", expect: 0},
		{input: "", expect: 0},
		{input: "7.5kg", expect: 7},
		{input: "약 22 kg", expect: 22},
		{input: "99999999999999999999999kg", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, ParseWeight(tt.input))
		})
	}
}

func TestScoreWalkerScenario(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	dog := &catalog.Dog{
		Name:            "A",
		Weight:          "15kg",
		HealthIssue:     "건강함",
		PersonalityTags: []string{"#산책잘함", "#순둥이", "#겁쟁이"},
	}

	result := engine.Score(dog, newProfile(profile.SizeMedium, false, "#산책잘함", "#순둥이"))

	assert.Equal(t, 5, result.Score)
	assert.Equal(t, []string{"#산책잘함", "#순둥이"}, result.MatchedTags)
}

func TestScoreBonuses(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name    string
		dog     *catalog.Dog
		profile *profile.Profile
		expect  int
	}{
		{
			name:    "priority tags add two each",
			dog:     &catalog.Dog{Weight: "30kg", PersonalityTags: []string{"#겁쟁이", "#소심함", "#순둥이"}},
			profile: newProfile(profile.SizeSmall, false, "#겁쟁이", "#소심함", "#순둥이"),
			expect:  3 + 2*2,
		},
		{
			name:    "unmatched priority tag adds nothing",
			dog:     &catalog.Dog{Weight: "30kg", PersonalityTags: []string{"#임보급구"}},
			profile: newProfile(profile.SizeSmall, false, "#순둥이"),
			expect:  0,
		},
		{
			name:    "small band includes ten",
			dog:     &catalog.Dog{Weight: "10kg"},
			profile: newProfile(profile.SizeSmall, false),
			expect:  3,
		},
		{
			name:    "missing weight counts as small",
			dog:     &catalog.Dog{Weight: "모름"},
			profile: newProfile(profile.SizeSmall, false),
			expect:  3,
		},
		{
			name:    "medium band excludes ten",
			dog:     &catalog.Dog{Weight: "10kg"},
			profile: newProfile(profile.SizeMedium, false),
			expect:  0,
		},
		{
			name:    "medium band includes twenty",
			dog:     &catalog.Dog{Weight: "20kg"},
			profile: newProfile(profile.SizeMedium, false),
			expect:  3,
		},
		{
			name:    "large band",
			dog:     &catalog.Dog{Weight: "21kg"},
			profile: newProfile(profile.SizeLarge, false),
			expect:  3,
		},
		{
			name:    "care bonus needs willingness",
			dog:     &catalog.Dog{Weight: "30kg", PersonalityTags: []string{"#노견케어"}},
			profile: newProfile(profile.SizeSmall, false),
			expect:  0,
		},
		{
			name:    "care bonus without tag overlap",
			dog:     &catalog.Dog{Weight: "30kg", PersonalityTags: []string{"#살찌우기프로젝트"}},
			profile: newProfile(profile.SizeSmall, true),
			expect:  2,
		},
		{
			name:    "urgency marker",
			dog:     &catalog.Dog{Weight: "30kg", HealthIssue: "안락사 임박"},
			profile: newProfile(profile.SizeSmall, false),
			expect:  1,
		},
		{
			name:    "urgency counted once",
			dog:     &catalog.Dog{Weight: "30kg", HealthIssue: "🚨 치료 시급 🚨"},
			profile: newProfile(profile.SizeSmall, false),
			expect:  1,
		},
		{
			name: "priority and care overlap both apply",
			dog: &catalog.Dog{
				Weight:          "12kg",
				HealthIssue:     "🚨",
				PersonalityTags: []string{"#인내심필요", "#노견케어"},
			},
			profile: newProfile(profile.SizeMedium, true, "#인내심필요", "#노견케어"),
			expect:  2 + 2 + 3 + 2 + 1,
		},
		{
			name:    "duplicate dog tags count once",
			dog:     &catalog.Dog{Weight: "30kg", PersonalityTags: []string{"#순둥이", "#순둥이"}},
			profile: newProfile(profile.SizeSmall, false, "#순둥이"),
			expect:  1,
		},
		{
			name:    "unknown user tags are harmless",
			dog:     &catalog.Dog{Weight: "30kg", PersonalityTags: []string{"#순둥이"}},
			profile: newProfile(profile.SizeSmall, false, "#없는태그"),
			expect:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Score(tt.dog, tt.profile)
			assert.Equal(t, tt.expect, result.Score)
			assert.GreaterOrEqual(t, result.Score, len(result.MatchedTags))
		})
	}
}

func TestCustomUrgencyMarkers(t *testing.T) {
	engine := NewEngine(Config{UrgencyMarkers: []string{"urgent"}})
	dog := &catalog.Dog{Weight: "30kg", HealthIssue: "urgent surgery 🚨"}

	assert.Equal(t, 1, engine.Score(dog, newProfile(profile.SizeSmall, false)).Score)

	dog.HealthIssue = "🚨 only"
	assert.Equal(t, 0, engine.Score(dog, newProfile(profile.SizeSmall, false)).Score)
}

func TestRankOrdersByScoreAndKeepsTies(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	p := newProfile(profile.SizeLarge, false, "#순둥이", "#겁쟁이")

	dogs := []*catalog.Dog{
		{Name: "tie-1", Weight: "5kg", PersonalityTags: []string{"#순둥이"}},
		{Name: "top", Weight: "5kg", PersonalityTags: []string{"#겁쟁이"}},
		{Name: "tie-2", Weight: "5kg", PersonalityTags: []string{"#순둥이"}},
		{Name: "zero", Weight: "5kg"},
		{Name: "tie-3", Weight: "5kg", PersonalityTags: []string{"#순둥이"}},
		{Name: "tie-4", Weight: "5kg", PersonalityTags: []string{"#순둥이"}},
	}

	ranking := engine.Rank(dogs, p)

	require.True(t, ranking.Found())
	assert.Equal(t, "top", ranking.Best.Dog.Name)
	require.Len(t, ranking.RunnersUp, 3)
	assert.Equal(t, "tie-1", ranking.RunnersUp[0].Dog.Name)
	assert.Equal(t, "tie-2", ranking.RunnersUp[1].Dog.Name)
	assert.Equal(t, "tie-3", ranking.RunnersUp[2].Dog.Name)

	names := make([]string, 0, len(ranking.All))
	for _, r := range ranking.All {
		names = append(names, r.Dog.Name)
	}
	assert.Equal(t, []string{"top", "tie-1", "tie-2", "tie-3", "tie-4", "zero"}, names)

	again := engine.Rank(dogs, p)
	assert.Equal(t, ranking, again)
}

func TestRankFewDogs(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	dogs := []*catalog.Dog{{Name: "a"}, {Name: "b"}, nil}

	ranking := engine.Rank(dogs, profile.New())

	require.True(t, ranking.Found())
	assert.Equal(t, "a", ranking.Best.Dog.Name)
	require.Len(t, ranking.RunnersUp, 1)
	assert.Equal(t, "b", ranking.RunnersUp[0].Dog.Name)
}

func TestRankEmptyCatalog(t *testing.T) {
	ranking := NewEngine(DefaultConfig()).Rank(nil, profile.New())

	assert.False(t, ranking.Found())
	assert.Nil(t, ranking.Best)
	assert.Empty(t, ranking.RunnersUp)
}

func TestRankRunnersUpConfigurable(t *testing.T) {
	engine := NewEngine(Config{RunnersUp: 1})
	dogs := []*catalog.Dog{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	assert.Len(t, engine.Rank(dogs, profile.New()).RunnersUp, 1)
}

func TestDumpToTmpFile(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	ranking := engine.Rank([]*catalog.Dog{{Name: "콩이", Weight: "15kg"}}, profile.New())

	name, err := ranking.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded Ranking
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Best)
	assert.Equal(t, "콩이", decoded.Best.Dog.Name)
	assert.Equal(t, 3, decoded.Best.Score)
}
