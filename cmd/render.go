package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/dang-matcher/internal/ai"
	"github.com/spigell/dang-matcher/internal/catalog"
	"github.com/spigell/dang-matcher/internal/matching"
	"github.com/spigell/dang-matcher/internal/wizard"
)

const (
	bestMatchTagLimit = 4
	runnerUpTagLimit  = 3
	separator         = "----------------------------------------"
)

// rescueLinks are the rescue network channels shown on the intro and result screens.
var rescueLinks = []struct {
	Label string
	URL   string
}{
	{Label: "🎬 유튜브", URL: "https://www.youtube.com/@비글구조네트워크협회"},
	{Label: "📸 인스타그램", URL: "https://www.instagram.com/brn_boeun/"},
	{Label: "☕ 네이버 카페", URL: "https://cafe.naver.com/thebeagle"},
}

func renderStep(w io.Writer, step wizard.Step) {
	fmt.Fprintf(w, "\n🎨 댕칼코마니  |  Step %d / %d\n%s\n", step.Number(), wizard.TotalSteps, separator)
}

func renderIntro(w io.Writer) {
	renderStep(w, wizard.StepIntro)
	fmt.Fprintln(w, `"당신의 얼굴 속에 숨겨진 댕댕이를 찾아드립니다."`)
	fmt.Fprintln(w, "댕칼코마니는 단순한 닮은꼴 찾기가 아닙니다.")
	fmt.Fprintln(w, "나와 닮은 눈망울을 가진 아이에게, 평생의 가족이 되어주는 기적의 시작입니다.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🚀 댕칼코마니 여정: 📸 관상 분석 ▶ 🧠 성향 테스트 ▶ 💝 운명 매칭")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🐾 비글구조네트워크(Beagle Rescue Network)")
	fmt.Fprintln(w, "실험동물로 가장 많이 희생되는 견종인 '비글'을 중심으로, 갈 곳 없는 동물들을 구조하고 보호하며")
	fmt.Fprintln(w, "새로운 가족을 찾아주는 동물보호 단체입니다.")
	fmt.Fprintln(w, "📢 사지 말고 입양하세요! 당신의 작은 관심이 한 생명의 세상을 바꿉니다.")
	renderLinks(w)
}

func renderLinks(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🌟 더 많은 아이들을 만나보세요")
	for _, link := range rescueLinks {
		fmt.Fprintf(w, "  %s: %s\n", link.Label, link.URL)
	}
}

func renderAnalysis(w io.Writer, analysis *ai.PhotoAnalysis) {
	fmt.Fprintln(w, "✨ 분석이 완료되었습니다!")
	fmt.Fprintln(w, "🤖 AI 관상 리포트")
	fmt.Fprintf(w, "  %s\n", analysis.Summary)
	fmt.Fprintf(w, "  추출된 키워드: %s\n", strings.Join(analysis.MatchedTags, ", "))
}

func renderRanking(w io.Writer, cat *catalog.Catalog, ranking matching.Ranking) {
	renderStep(w, wizard.StepResults)
	fmt.Fprintln(w, "🎉 당신의 댕칼코마니는?")

	if !ranking.Found() {
		fmt.Fprintln(w, "매칭된 강아지를 찾지 못했어요.")
		return
	}

	best := ranking.Best
	fmt.Fprintln(w)
	fmt.Fprintln(w, "💝 최고의 매칭!")
	fmt.Fprintf(w, "🐾 %s\n", best.Dog.Name)
	fmt.Fprintf(w, "  %s | %s\n", best.Dog.Breed, best.Dog.Age)
	fmt.Fprintf(w, "  ❤️ 궁합 점수: %d점\n", best.Score)
	if path, ok := cat.ResolveImage(best.Dog); ok {
		fmt.Fprintf(w, "  🖼  %s\n", path)
	} else {
		fmt.Fprintln(w, "  이미지를 찾을 수 없습니다")
	}
	if len(best.MatchedTags) > 0 {
		fmt.Fprintf(w, "  💕 통하는 점: %s\n", strings.Join(limit(best.MatchedTags, bestMatchTagLimit), ", "))
	}
	if best.Dog.Story != "" {
		fmt.Fprintf(w, "  💡 %s 이야기\n  %s\n", best.Dog.Name, best.Dog.Story)
	}

	if len(ranking.RunnersUp) > 0 {
		fmt.Fprintln(w, separator)
		fmt.Fprintln(w, "🌟 이 아이들도 잘 맞아요!")
		for _, r := range ranking.RunnersUp {
			fmt.Fprintf(w, "🐾 %s (%s, %s) 궁합: %d점\n", r.Dog.Name, r.Dog.Breed, r.Dog.Age, r.Score)
			if len(r.MatchedTags) > 0 {
				fmt.Fprintf(w, "  %s\n", strings.Join(limit(r.MatchedTags, runnerUpTagLimit), ", "))
			}
		}
	}

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "이 아이들의 가족이 되어주세요.")
	renderLinks(w)
}

// renderRankingJSON writes the best match and runners-up as indented JSON.
func renderRankingJSON(w io.Writer, ranking matching.Ranking) error {
	out := struct {
		Best      *matching.Result  `json:"best"`
		RunnersUp []matching.Result `json:"runners_up"`
	}{
		Best:      ranking.Best,
		RunnersUp: ranking.RunnersUp,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func limit(tags []string, n int) []string {
	if len(tags) > n {
		return tags[:n]
	}
	return tags
}
