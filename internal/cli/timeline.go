package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/existflow/tablero/internal/board"
	"github.com/existflow/tablero/internal/model"
	"github.com/existflow/tablero/internal/timeline"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline [project-id]",
	Short: "Show open tasks bucketed by due week",
	RunE:  runTimeline,
	Args:  cobra.ExactArgs(1),
}

var (
	timelineStart string
	timelineWeeks int
)

func init() {
	timelineCmd.Flags().StringVar(&timelineStart, "start", "", "Timeline start date (YYYY-MM-DD, default: this Monday)")
	timelineCmd.Flags().IntVar(&timelineWeeks, "weeks", 6, "Number of weekly columns")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	engine, err := loadEngine(ctx, client, args[0])
	if err != nil {
		return err
	}

	start := timeline.WeekStart(time.Now())
	if timelineStart != "" {
		start, err = time.ParseInLocation("2006-01-02", timelineStart, time.Local)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}

	buckets := make([][]model.Task, timelineWeeks+1)
	b := engine.Board()
	for _, col := range board.Columns {
		if col == board.ColumnDone {
			continue
		}
		for _, t := range b[col] {
			if t.DueDate == "" {
				continue
			}
			due, err := time.ParseInLocation("2006-01-02", model.DateOnly(t.DueDate), time.Local)
			if err != nil {
				continue
			}
			week := timeline.Column(due, start, timelineWeeks)
			buckets[week] = append(buckets[week], t)
		}
	}

	for week := 1; week <= timelineWeeks; week++ {
		anchor := start.AddDate(0, 0, (week-1)*7)
		marker := " "
		if timeline.IsCurrentWeek(anchor, time.Now()) {
			marker = "▶"
		}
		fmt.Printf("%s Semana %d (%s)\n", marker, week, anchor.Format("2006-01-02"))
		for _, t := range buckets[week] {
			fmt.Printf("    %-12s %-40s ⏰ %s\n",
				model.ShortID(t.ID), t.Title, model.DateOnly(t.DueDate))
		}
	}
	return nil
}
