package main

import (
	"encoding/json"
	"fmt"
	"io"
	"logicode/internal/app/service"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the demo user, built-in challenges and configured admin",
		Long: `Writes each starter collection whose key is absent. Existing data,
including an explicitly empty collection, is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Seeder.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Store seeded.")
			return nil
		},
	}
}

func newResetCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every LogiCode key in the namespace, then reseed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all data in namespace %q; pass --yes to confirm", c.app.Config.StoreNamespace)
			}
			if err := c.app.Admin.Reset(cmd.Context(), service.SystemSession()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Namespace %q reset.\n", c.app.Config.StoreNamespace)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

type statsOutput struct {
	Users      int `json:"users"`
	Challenges int `json:"challenges"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show user, challenge and moderation counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stats, err := c.app.Admin.Stats(ctx, service.SystemSession())
			if err != nil {
				return err
			}
			challenges, err := c.app.Challenge.List(ctx)
			if err != nil {
				return err
			}
			out := statsOutput{
				Users:      stats.Users,
				Challenges: len(challenges),
				Pending:    stats.Pending,
				Approved:   stats.Approved,
				Rejected:   stats.Rejected,
			}
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Users\t%d\n", out.Users)
			fmt.Fprintf(tw, "Challenges\t%d\n", out.Challenges)
			fmt.Fprintf(tw, "Questions pending\t%d\n", out.Pending)
			fmt.Fprintf(tw, "Questions approved\t%d\n", out.Approved)
			fmt.Fprintf(tw, "Questions rejected\t%d\n", out.Rejected)
			return tw.Flush()
		},
	}
}

func newUsersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users without their passwords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := c.app.Admin.ListUsers(cmd.Context(), service.SystemSession())
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), users)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tXP\tLEVEL\tSTREAK\tCOMPLETED")
			for _, u := range users {
				role := u.Role
				if role == "" {
					role = "user"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					u.ID, u.Name, u.Email, role, u.XP, u.CurrentLevel(), u.Streak, len(u.CompletedChallenges))
			}
			return tw.Flush()
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
