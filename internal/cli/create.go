package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
)

// NewCreateCmd assembles one quiz from the command line.
func NewCreateCmd(configPath *string) *cobra.Command {
	var (
		title      string
		start      string
		end        string
		category   string
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quiz with random questions from a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endDate, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			level, err := domain.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}

			d, err := buildDeps(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer d.close()

			quiz, err := d.assembler.CreateQuizWithQuestions(cmd.Context(), title, startDate, endDate, category, level)
			if err != nil {
				return err
			}
			fmt.Printf("created quiz %d (%s) from %s to %s\n",
				quiz.ID, quiz.Title, quiz.StartDate.Format("2006-01-02"), quiz.EndDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "quiz title (1-100 chars)")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "question category, e.g. HISTORY")
	cmd.Flags().StringVar(&difficulty, "difficulty", "easy", "easy, medium, or hard")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
