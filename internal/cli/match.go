package cli

import (
	"github.com/spf13/cobra"

	"github.com/openfield/pickup/internal/model"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match and roster commands",
	}

	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchUpdateCmd())
	cmd.AddCommand(newMatchDeleteCmd())
	cmd.AddCommand(newMatchJoinCmd())
	cmd.AddCommand(newMatchLeaveCmd())
	cmd.AddCommand(newMatchKickCmd())

	return cmd
}

func newMatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(a.catalog.List())
			return nil
		},
	}
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <match-id>",
		Short: "Show a match roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			m, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(m)
			return nil
		},
	}
}

func newMatchCreateCmd() *cobra.Command {
	var (
		date        string
		timeOfDay   string
		location    string
		locationURL string
		maxPlayers  int
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			// Stage the match locally, then save it through the
			// reconciler so the server-assigned id lands in the catalog.
			draft := &model.Match{
				LocalKey:    "local_draft",
				Title:       args[0],
				Date:        date,
				Time:        timeOfDay,
				Location:    location,
				LocationURL: locationURL,
				MaxPlayers:  maxPlayers,
				Notes:       notes,
			}
			a.catalog.Upsert(draft)

			saved, err := a.reconciler.CreateMatch(cmd.Context(), draft.Key())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(saved)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Match date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "Match time (HH:MM)")
	cmd.Flags().StringVar(&location, "location", "", "Where the match is played")
	cmd.Flags().StringVar(&locationURL, "location-url", "", "Map link for the location")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Confirmed-player capacity (default: server default)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func newMatchUpdateCmd() *cobra.Command {
	var (
		title       string
		date        string
		timeOfDay   string
		location    string
		locationURL string
		maxPlayers  int
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "update <match-id>",
		Short: "Update match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if cmd.Flags().Changed("title") {
				body["title"] = title
			}
			if cmd.Flags().Changed("date") {
				body["date"] = date
			}
			if cmd.Flags().Changed("time") {
				body["time"] = timeOfDay
			}
			if cmd.Flags().Changed("location") {
				body["location"] = location
			}
			if cmd.Flags().Changed("location-url") {
				body["locationUrl"] = locationURL
			}
			if cmd.Flags().Changed("max-players") {
				body["maxPlayers"] = maxPlayers
			}
			if cmd.Flags().Changed("notes") {
				body["notes"] = notes
			}

			if err := api.UpdateMatch(cmd.Context(), args[0], body); err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			m, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(m)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Match title")
	cmd.Flags().StringVar(&date, "date", "", "Match date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "Match time (HH:MM)")
	cmd.Flags().StringVar(&location, "location", "", "Where the match is played")
	cmd.Flags().StringVar(&locationURL, "location-url", "", "Map link for the location")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Confirmed-player capacity")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func newMatchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <match-id>",
		Short: "Delete a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if err := a.reconciler.RequestDelete(cmd.Context(), args[0]); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Match deleted.")
			return nil
		},
	}
}

func newMatchJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <match-id>",
		Short: "Join a match roster",
		RunE: membershipRunE(func(a *app, cmd *cobra.Command, args []string, id model.Identity) error {
			return a.reconciler.RequestJoin(cmd.Context(), args[0], id)
		}),
		Args: cobra.ExactArgs(1),
	}
}

func newMatchLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <match-id>",
		Short: "Leave a match roster",
		RunE: membershipRunE(func(a *app, cmd *cobra.Command, args []string, id model.Identity) error {
			return a.reconciler.RequestLeave(cmd.Context(), args[0], id)
		}),
		Args: cobra.ExactArgs(1),
	}
}

func newMatchKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <match-id> <player-id>",
		Short: "Remove another player from a roster",
		RunE: membershipRunE(func(a *app, cmd *cobra.Command, args []string, id model.Identity) error {
			return a.reconciler.RequestKick(cmd.Context(), args[0], args[1], id)
		}),
		Args: cobra.ExactArgs(2),
	}
}

// membershipRunE wraps a roster mutation: build the app, resolve the
// acting identity, run the mutation, then print the settled roster.
func membershipRunE(fn func(a *app, cmd *cobra.Command, args []string, id model.Identity) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		id, err := a.currentIdentity(cmd.Context())
		if err != nil {
			return err
		}

		if err := fn(a, cmd, args, id); err != nil {
			return err
		}

		m, err := a.catalog.Get(args[0])
		if err != nil {
			return err
		}

		NewOutput(cfg.Output).Print(m)
		return nil
	}
}
