package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/loginapi/internal/client"
	"github.com/templui/loginapi/internal/model"
)

func profileCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
	}
	cmd.AddCommand(profileShowCmd(e), profileUpdateCmd(e))
	return cmd
}

func profileShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}
			user, err := e.session.Gateway.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

func profileUpdateCmd(e *env) *cobra.Command {
	var name, bio, skills, imageURL string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; pass an empty value to clear one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireLogin(); err != nil {
				return err
			}

			var patch client.ProfilePatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = model.Set(name)
			}
			if flags.Changed("bio") {
				patch.Bio = model.Set(bio)
			}
			if flags.Changed("skills") {
				if list := splitList(skills); len(list) > 0 {
					patch.Skills = model.Set(list)
				} else {
					patch.Skills = model.Clear[[]string]()
				}
			}
			if flags.Changed("image-url") {
				patch.ProfileImageURL = model.Set(imageURL)
			}

			user, err := e.session.Gateway.UpdateProfile(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&bio, "bio", "", "short bio")
	cmd.Flags().StringVar(&skills, "skills", "", "comma-separated skills")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "profile image URL")
	return cmd
}
