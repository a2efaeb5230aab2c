package cmd

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/loginapi/internal/client"
	"github.com/templui/loginapi/internal/model"
)

func searchCmd(e *env) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search users once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			res, err := e.session.Gateway.Search(cmd.Context(), model.SearchFilter(filter), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d result(s)\n", res.Count)
			printUsers(cmd.OutOrStdout(), res.Users)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", string(model.SearchByName), "name, email, id or skills")
	return cmd
}

// browseCmd treats every stdin line as the current content of a search box
// and searches once the input settles.
func browseCmd(e *env) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search as you type (one line per keystroke state)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			e.session.Store.Navigate(client.ViewBrowse)
			defer e.session.Store.Navigate(client.ViewDashboard)

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			lines := make(chan string)
			go func() {
				defer close(lines)
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					lines <- sc.Text()
				}
			}()

			queries := make(chan string, 1)
			d := client.NewDebouncer(e.cfg.SearchDebounce, func(q string) { queries <- q })
			defer d.Stop()

			var drained <-chan time.Time
			for {
				select {
				case <-ctx.Done():
					return nil
				case line, ok := <-lines:
					if !ok {
						lines = nil
						drained = time.After(e.cfg.SearchDebounce + 100*time.Millisecond)
						continue
					}
					d.Input(line)
				case q := <-queries:
					res, err := e.session.Gateway.Search(ctx, model.SearchFilter(filter), q)
					if client.IsDenied(err) {
						return err
					}
					if err != nil {
						fmt.Fprintf(out, "search %q: %v\n", q, err)
						continue
					}
					fmt.Fprintf(out, "%q: %d result(s)\n", q, res.Count)
					printUsers(out, res.Users)
				case <-drained:
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", string(model.SearchByName), "name, email, id or skills")
	return cmd
}
