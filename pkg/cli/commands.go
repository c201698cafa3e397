package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tdl/pkg/commands"
	"tdl/pkg/keymaps"
)

func addFilterFlags(cmd *cobra.Command, f *commands.Filter) {
	flags := cmd.Flags()
	flags.StringVar(&f.Date, "date", "", "Only tasks due on this day (YYYY-MM-DD, today, tomorrow)")
	flags.StringVarP(&f.Query, "search", "s", "", "Only tasks whose title or description contains this text")
	flags.StringVar(&f.Priority, "priority", "", "Only tasks with this priority")
	flags.BoolVar(&f.Done, "done", false, "Only completed tasks")
	flags.BoolVar(&f.Undone, "undone", false, "Only pending tasks")
}

// changed returns a pointer to value when the flag was given, nil otherwise.
func changed(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func (a *app) addCmd() *cobra.Command {
	var opts commands.AddOptions
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task; a +name tag sets the category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Add(cmd.Context(), a.svc, cmd.OutOrStdout(), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Date, "date", "", "Due date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&opts.NoDate, "no-date", false, "Add the task without a due date")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "Description")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var f commands.Filter
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.List(cmd.Context(), a.svc, cmd.OutOrStdout(), f)
		},
	}
	addFilterFlags(cmd, &f)
	cmd.Flags().StringVar(&f.Sort, "sort", "", "Sort by created, updated, due, priority or title")
	cmd.Flags().BoolVar(&f.Asc, "asc", false, "Sort ascending")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var title, desc, date, priority, category string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Edit(cmd.Context(), a.svc, cmd.OutOrStdout(), args[0], commands.EditOptions{
				Title:       changed(cmd, "title", title),
				Description: changed(cmd, "desc", desc),
				Date:        changed(cmd, "date", date),
				Priority:    changed(cmd, "priority", priority),
				Category:    changed(cmd, "category", category),
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "New description, empty to clear")
	cmd.Flags().StringVar(&date, "date", "", "New due date, none to clear")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name, empty to clear")
	return cmd
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Toggle the completion of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Toggle(cmd.Context(), a.svc, cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID...",
		Short: "Delete tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Remove(cmd.Context(), a.svc, cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) completeCmd() *cobra.Command {
	var f commands.Filter
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark every matching task as done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.Complete(cmd.Context(), a.svc, cmd.OutOrStdout(), f)
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

func (a *app) purgeCmd() *cobra.Command {
	var f commands.Filter
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every matching completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.Purge(cmd.Context(), a.svc, cmd.InOrStdin(), cmd.OutOrStdout(), f, yes)
		},
	}
	addFilterFlags(cmd, &f)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.Stats(cmd.Context(), a.svc, cmd.OutOrStdout())
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var exportType string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export all tasks to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Export(cmd.Context(), a.svc, cmd.OutOrStdout(), args[0], exportType)
		},
	}
	cmd.Flags().StringVar(&exportType, "type", "json", "Export file type (json, txt)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import tasks from a json export or a txt checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Import(cmd.Context(), a.svc, cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	var color, icon string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.CategoryAdd(cmd.Context(), a.svc, cmd.OutOrStdout(), args[0], color, icon)
		},
	}
	add.Flags().StringVar(&color, "color", "", "red, orange, yellow, green, blue, purple, pink or gray")
	add.Flags().StringVar(&icon, "icon", "", "Icon name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.CategoryList(cmd.Context(), a.svc, cmd.OutOrStdout())
		},
	}

	var name, newColor, newIcon string
	edit := &cobra.Command{
		Use:   "edit NAME|ID",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.CategoryEdit(cmd.Context(), a.svc, cmd.OutOrStdout(), args[0], commands.CategoryEditOptions{
				Name:  changed(cmd, "name", name),
				Color: changed(cmd, "color", newColor),
				Icon:  changed(cmd, "icon", newIcon),
			})
		},
	}
	edit.Flags().StringVar(&name, "name", "", "New name")
	edit.Flags().StringVar(&newColor, "color", "", "New color")
	edit.Flags().StringVar(&newIcon, "icon", "", "New icon")

	rm := &cobra.Command{
		Use:   "rm NAME|ID",
		Short: "Delete a category; its tasks keep the reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.CategoryRemove(cmd.Context(), a.svc, cmd.OutOrStdout(), args[0])
		},
	}

	cmd.AddCommand(add, list, edit, rm)
	return cmd
}

func (a *app) keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the TUI key bindings after config overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, line := range keymaps.BuildKeyMap(a.cfg.KeyMap).HelpLines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
