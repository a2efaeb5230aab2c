package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/loginapi/internal/client"
	"github.com/templui/loginapi/internal/logger"
	"github.com/templui/loginapi/internal/model"
)

// env is what every subcommand runs against, set up in PersistentPreRunE.
type env struct {
	cfg     *client.Config
	storage *client.SQLiteStorage
	session *client.Session
}

func Root() *cobra.Command {
	e := &env{}
	var apiURL, statePath string
	var verbose bool

	root := &cobra.Command{
		Use:          "loginapi",
		Short:        "Terminal client for the login API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger.Init(logger.Options{Development: true, Level: level, Output: cmd.ErrOrStderr()})

			cfg, err := client.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if cmd.Flags().Changed("state") {
				cfg.StatePath = statePath
			}

			storage, err := client.OpenSQLiteStorage(cmd.Context(), cfg.StatePath)
			if err != nil {
				return err
			}
			store := client.NewStore(storage)
			if err := store.Init(cmd.Context()); err != nil {
				_ = storage.Close()
				return err
			}

			e.cfg = cfg
			e.storage = storage
			e.session = client.NewSession(cfg, store)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.storage == nil {
				return nil
			}
			return e.storage.Close()
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", client.DefaultAPIURL, "API base URL (env API_URL)")
	root.PersistentFlags().StringVar(&statePath, "state", "", "path of the local login state (env LOGIN_STATE_PATH)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		registerCmd(e),
		loginCmd(e),
		logoutCmd(e),
		whoamiCmd(e),
		profileCmd(e),
		searchCmd(e),
		browseCmd(e),
		dataCmd(e),
	)
	return root
}

// requireLogin fails early when there is no stored session.
func (e *env) requireLogin() error {
	if !e.session.Store.IsAuthenticated() {
		return fmt.Errorf("not logged in; run `loginapi login` first")
	}
	return nil
}

func printUser(w io.Writer, u *model.PublicUser) {
	fmt.Fprintf(w, "id:       %s\n", u.ID)
	fmt.Fprintf(w, "email:    %s\n", u.Email)
	fmt.Fprintf(w, "name:     %s\n", orDash(u.Name))
	fmt.Fprintf(w, "bio:      %s\n", orDash(u.Bio))
	skills := "-"
	if len(u.Skills) > 0 {
		skills = strings.Join(u.Skills, ", ")
	}
	fmt.Fprintf(w, "skills:   %s\n", skills)
	fmt.Fprintf(w, "image:    %s\n", orDash(u.ProfileImageURL))
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "joined:   %s\n", u.CreatedAt.Format("2006-01-02"))
	}
}

func printUsers(w io.Writer, users []model.PublicUser) {
	if len(users) == 0 {
		fmt.Fprintln(w, "no users found")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "%s  %-30s  %s\n", u.ID, u.Email, orDash(u.Name))
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// splitList turns "a, b ,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
