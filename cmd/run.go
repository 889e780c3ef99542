package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/dang-matcher/internal/photo"
	"github.com/spigell/dang-matcher/internal/questionnaire"
	"github.com/spigell/dang-matcher/internal/wizard"
)

const (
	PromptStart         = "나의 댕칼코마니 찾으러 가기 👉"
	PromptUploadPhoto   = "내 관상 분석하기 🔍"
	PromptSkipPhoto     = "사진 없이 성향 테스트로 이동 👉"
	PromptNext          = "다음: 성향 테스트로 이동 👉"
	PromptRetryPhoto    = "🔄 다른 사진으로 다시 분석"
	PromptRestart       = "처음부터 다시 하기 🔄"
	PromptRankingToFile = "결과를 파일로 저장하기 💾"
	PromptExit          = "종료"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive matching wizard",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	app := newApplication(ctx, true)

	runner := &wizardRunner{
		app:     app,
		session: wizard.NewSession(app.deps()),
		prompt:  terminalPrompter{},
		out:     cmd.OutOrStdout(),
	}

	if err := runner.run(ctx); err != nil {
		app.logger.Fatal("exiting", zap.Error(err))
	}

	app.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
}

// prompter asks the user for one choice or one line of input.
type prompter interface {
	Select(label string, items []string) (int, error)
	Input(label string, validate func(string) error) (string, error)
}

type terminalPrompter struct{}

func (terminalPrompter) Select(label string, items []string) (int, error) {
	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}

	idx, _, err := p.Run()
	return idx, promptErr(err)
}

func (terminalPrompter) Input(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}

	value, err := p.Run()
	return strings.TrimSpace(value), promptErr(err)
}

// promptErr turns Ctrl+C and Ctrl+D into a regular exit.
func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errExit
	}
	return err
}

// wizardRunner renders the session's current step and feeds user choices back into it.
type wizardRunner struct {
	app     *application
	session *wizard.Session
	prompt  prompter
	out     io.Writer
}

func (r *wizardRunner) run(ctx context.Context) error {
	for {
		var err error

		switch step := r.session.Step(); step {
		case wizard.StepIntro:
			err = r.intro()
		case wizard.StepPhotoAnalysis:
			err = r.photo(ctx)
		case wizard.StepQuestionnaire:
			err = r.questionnaire()
		case wizard.StepResults:
			err = r.results()
		default:
			err = fmt.Errorf("unknown wizard step: %s", step)
		}

		if err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func (r *wizardRunner) choose(label string, items ...string) (string, error) {
	idx, err := r.prompt.Select(label, items)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(items) {
		return "", fmt.Errorf("invalid selection %d for %q", idx, label)
	}
	return items[idx], nil
}

func (r *wizardRunner) intro() error {
	renderIntro(r.out)

	action, err := r.choose("시작할까요?", PromptStart, PromptExit)
	if err != nil {
		return err
	}

	switch action {
	case PromptStart:
		return r.session.Start()
	default:
		return errExit
	}
}

func (r *wizardRunner) photo(ctx context.Context) error {
	if r.session.Analyzed() {
		action, err := r.choose("다음 단계를 선택하세요", PromptNext, PromptRetryPhoto, PromptExit)
		if err != nil {
			return err
		}

		switch action {
		case PromptNext:
			return r.session.Continue()
		case PromptRetryPhoto:
			return r.session.RetryPhoto()
		default:
			return errExit
		}
	}

	renderStep(r.out, wizard.StepPhotoAnalysis)
	fmt.Fprintln(r.out, "📸 관상 분석")

	first := PromptUploadPhoto
	if r.session.CanSkipPhoto() {
		fmt.Fprintln(r.out, "AI 관상 분석이 꺼져 있어요. 성향 테스트만으로 매칭합니다.")
		first = PromptSkipPhoto
	} else {
		fmt.Fprintln(r.out, "본인 사진을 올려주세요. AI가 당신의 분위기를 읽어냅니다.")
	}

	action, err := r.choose("사진 분석", first, PromptExit)
	if err != nil {
		return err
	}

	switch action {
	case PromptSkipPhoto:
		return r.session.Continue()
	case PromptUploadPhoto:
		return r.analyze(ctx)
	default:
		return errExit
	}
}

// analyze loads and analyzes one photo. Failures are shown to the user and the step is offered again.
func (r *wizardRunner) analyze(ctx context.Context) error {
	path, err := r.prompt.Input("사진 경로 (jpg, png)", validatePhotoPath)
	if err != nil {
		return err
	}

	img, err := photo.Load(path, r.app.maxPhotoBytes())
	if err != nil {
		r.app.logger.Warn("loading photo", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(r.out, "사진을 읽을 수 없어요: %v\n", err)
		return nil
	}

	fmt.Fprintln(r.out, "🎨 당신의 얼굴을 분석하고 있습니다...")

	ctx, cancel := r.app.analysisContext(ctx)
	defer cancel()

	analysis, err := r.session.AnalyzePhoto(ctx, img)
	if err != nil {
		fmt.Fprintln(r.out, "분석에 실패했어요. 잠시 후 다시 시도하거나 다른 사진을 올려주세요.")
		return nil
	}

	renderAnalysis(r.out, analysis)
	fmt.Fprintln(r.out, "관상이 아주 좋으시네요! 이 결과를 바탕으로 성향 테스트를 진행합니다.")
	return nil
}

func (r *wizardRunner) questionnaire() error {
	renderStep(r.out, wizard.StepQuestionnaire)
	fmt.Fprintln(r.out, "🧠 나는 어떤 사람일까?")
	fmt.Fprintln(r.out, "5가지 질문으로 나의 성향을 알아볼게요!")

	indexes := make([]int, 0, len(questionnaire.Questions))
	for _, q := range questionnaire.Questions {
		idx, err := r.prompt.Select(q.Label, q.Labels())
		if err != nil {
			return err
		}
		indexes = append(indexes, idx)
	}

	answers, err := questionnaire.Select(indexes...)
	if err != nil {
		return err
	}

	ranking, err := r.session.SubmitAnswers(answers)
	if err != nil {
		return err
	}

	renderRanking(r.out, r.app.catalog, ranking)
	return nil
}

func (r *wizardRunner) results() error {
	action, err := r.choose("무엇을 할까요?", PromptRestart, PromptRankingToFile, PromptExit)
	if err != nil {
		return err
	}

	switch action {
	case PromptRestart:
		return r.session.Restart()
	case PromptRankingToFile:
		ranking, err := r.session.Ranking()
		if err != nil {
			return err
		}

		filename, err := ranking.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump ranking to file: %w", err)
		}

		r.app.logger.Info("dumping result to file", zap.String("filename", filename))
		fmt.Fprintf(r.out, "결과를 저장했어요: %s\n", filename)
		return nil
	default:
		return errExit
	}
}

func validatePhotoPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return errors.New("only jpg, jpeg and png files are supported")
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
