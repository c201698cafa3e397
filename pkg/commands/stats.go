package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"tdl/pkg/service"
	"tdl/pkg/todo"
)

// Stats prints the statistics snapshot of all tasks.
func Stats(ctx context.Context, svc *service.Service, w io.Writer) error {
	s, err := svc.Statistics(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total:                %d\n", s.TotalTodos)
	fmt.Fprintf(w, "Completed:            %d\n", s.CompletedTodos)
	fmt.Fprintf(w, "Pending:              %d\n", s.PendingTodos)
	fmt.Fprintf(w, "Created today:        %d\n", s.TodayTodos)
	fmt.Fprintf(w, "Completion rate:      %s\n", s.FormattedCompletionRate())
	fmt.Fprintf(w, "Avg. completion time: %s\n", s.FormattedAverageCompletionTime())

	fmt.Fprintln(w, "\nBy priority:")
	for _, p := range todo.Priorities() {
		fmt.Fprintf(w, "  %-8s %d\n", p, s.PriorityBreakdown[p])
	}

	if len(s.CategoryBreakdown) == 0 {
		return nil
	}

	names, err := categoryNames(ctx, svc)
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(s.CategoryBreakdown))
	for id, n := range s.CategoryBreakdown {
		name, ok := names[id]
		if !ok {
			name = id.String()[:8]
		}
		lines = append(lines, fmt.Sprintf("  %-8s %d", name, n))
	}
	sort.Strings(lines)

	fmt.Fprintln(w, "\nBy category:")
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return nil
}
