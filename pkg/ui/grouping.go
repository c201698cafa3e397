package ui

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"tdl/pkg/todo"
)

const (
	noCategory      = "No Category"
	deletedCategory = "(deleted)"
)

// GroupedTasks represents tasks grouped by a common attribute
type GroupedTasks struct {
	GroupName string
	Tasks     []todo.Task
}

// GroupTasks sections tasks by groupBy. Order inside a group follows the
// input, which the query engine has already sorted.
func GroupTasks(tasks []todo.Task, groupBy GroupBy, categories []todo.Category) []GroupedTasks {
	switch groupBy {
	case GroupByPriority:
		return groupByPriority(tasks)
	case GroupByCategory:
		return groupByCategory(tasks, categories)
	default:
		return []GroupedTasks{{GroupName: "", Tasks: tasks}}
	}
}

func groupByPriority(tasks []todo.Task) []GroupedTasks {
	buckets := make(map[todo.Priority][]todo.Task)
	for _, t := range tasks {
		buckets[t.Priority] = append(buckets[t.Priority], t)
	}

	order := slices.Clone(todo.Priorities())
	slices.Reverse(order)

	var result []GroupedTasks
	for _, p := range order {
		if len(buckets[p]) == 0 {
			continue
		}
		result = append(result, GroupedTasks{GroupName: PriorityLabel(p), Tasks: buckets[p]})
	}
	return result
}

func groupByCategory(tasks []todo.Task, categories []todo.Category) []GroupedTasks {
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	// Dangling references are kept apart from named groups so a category
	// literally called "(deleted)" does not absorb them.
	groups := make(map[string][]todo.Task)
	var deleted, uncategorized []todo.Task
	for _, t := range tasks {
		if t.CategoryID == nil {
			uncategorized = append(uncategorized, t)
			continue
		}
		name, ok := names[*t.CategoryID]
		if !ok {
			deleted = append(deleted, t)
			continue
		}
		groups[name] = append(groups[name], t)
	}

	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	slices.SortFunc(groupNames, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	result := make([]GroupedTasks, 0, len(groupNames)+2)
	for _, name := range groupNames {
		result = append(result, GroupedTasks{GroupName: name, Tasks: groups[name]})
	}
	if len(deleted) > 0 {
		result = append(result, GroupedTasks{GroupName: deletedCategory, Tasks: deleted})
	}
	if len(uncategorized) > 0 {
		result = append(result, GroupedTasks{GroupName: noCategory, Tasks: uncategorized})
	}
	return result
}
