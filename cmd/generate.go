package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/form"
	"github.com/abhisek/qgen/internal/logging"
	"github.com/abhisek/qgen/internal/progress"
	"github.com/abhisek/qgen/internal/questiongen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions from a text file in the terminal",
	Example: "  qgen generate -f chapter3.txt --count 10\n" +
		"  cat notes.txt | qgen generate -f - --out quiz.json",
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringP("file", "f", "", `Source text file ("-" reads stdin)`)
	f.IntP("count", "n", form.DefaultQuestions,
		fmt.Sprintf("Number of questions (%d-%d)", form.MinQuestions, form.MaxQuestions))
	f.String("instructions-file", "", "File with custom generation instructions")
	f.StringP("out", "o", "generated_questions.json", `Where to write the JSON export ("" skips it)`)
	_ = generateCmd.MarkFlagRequired("file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	count, _ := cmd.Flags().GetInt("count")
	instrPath, _ := cmd.Flags().GetString("instructions-file")
	out, _ := cmd.Flags().GetString("out")

	if count < form.MinQuestions || count > form.MaxQuestions {
		return fmt.Errorf("--count must be between %d and %d, got %d",
			form.MinQuestions, form.MaxQuestions, count)
	}

	source, err := readInput(cmd, path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	in := form.Default()
	in.SourceText = source
	in.QuestionCount = count
	if instrPath != "" {
		instr, err := readInput(cmd, instrPath)
		if err != nil {
			return fmt.Errorf("read instructions: %w", err)
		}
		if strings.TrimSpace(instr) != "" {
			in.EditInstructions = true
			in.Instructions = instr
		}
	}
	if !in.Ready() {
		return errors.New("source text is empty; nothing to generate")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Info lines would interleave with the spinner.
	if strings.EqualFold(cfg.Log.Level, "info") {
		_ = logging.Init("warn", cfg.Log.Format)
	}

	ctx := cmd.Context()
	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	task, ok := p.orch.Submit(ctx, in.Request())
	if !ok {
		return errors.New("source text is empty; nothing to generate")
	}

	res, err := progress.Run(ctx, task, "Generating questions... This may take a minute.", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("generating questions: %s", res.Err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Questions.Render())

	if out == "" {
		return nil
	}
	if err := writeExport(out, res.Questions); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d questions to %s\n", res.Questions.Len(), out)
	return nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func writeExport(path string, qs questiongen.QuestionSet) error {
	data, err := qs.Serialize()
	if err != nil {
		return fmt.Errorf("serialize questions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
