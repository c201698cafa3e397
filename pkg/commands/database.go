package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"tdl/pkg/service"
)

// Complete marks every pending task matching f as done.
func Complete(ctx context.Context, svc *service.Service, w io.Writer, f Filter) error {
	c, err := f.Criteria()
	if err != nil {
		return err
	}

	n, err := svc.MarkCompleted(ctx, c)
	if err != nil {
		fmt.Fprintf(w, "Marked %d task(s) done before failing\n", n)
		return err
	}
	fmt.Fprintf(w, "Marked %d task(s) done\n", n)
	return nil
}

// Purge deletes the completed tasks matching f. Unless skipConfirm is set the
// user has to answer y on in.
func Purge(ctx context.Context, svc *service.Service, in io.Reader, w io.Writer, f Filter, skipConfirm bool) error {
	c, err := f.Criteria()
	if err != nil {
		return err
	}

	// Show confirmation unless --yes flag is used
	if !skipConfirm {
		fmt.Fprint(w, "Are you sure you want to delete the completed tasks? (y/N): ")
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(w, "Operation cancelled.")
			return nil
		}
	}

	n, err := svc.DeleteCompleted(ctx, c)
	if err != nil {
		fmt.Fprintf(w, "Deleted %d task(s) before failing\n", n)
		return err
	}
	fmt.Fprintf(w, "Successfully deleted %d task(s)\n", n)
	return nil
}
