package main

import (
	"fmt"

	"github.com/motivationmailer/mailer/internal/service"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the database environment, subscribers and pending quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := service.LoadStatus(cmd.Context(), a.uow)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database environment: %s\n\n", a.db.Environment())
			if len(st.Subscribers) == 0 {
				fmt.Fprintln(out, "No subscribers in the list.")
			} else {
				fmt.Fprintln(out, "List of Subscribers:")
				for i, sub := range st.Subscribers {
					fmt.Fprintf(out, "%d. %s\n", i+1, sub.Address)
				}
			}

			fmt.Fprintf(out, "\nPending quotes: %d\n", st.Pending)
			if st.Next != nil {
				fmt.Fprintf(out, "Next quote: %q - %s\n", st.Next.Quote, st.Next.Author)
			}
			return nil
		},
	}
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add ADDRESS...",
		Short: "Add email address(es) to the subscriber list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := service.NewSubscriberService(a.uow, a.log).Add(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, address := range res.Applied {
				fmt.Fprintf(out, "Subscriber %s added successfully!\n", address)
			}
			for _, address := range res.Skipped {
				fmt.Fprintf(out, "Subscriber %s already exists in the list.\n", address)
			}
			return nil
		},
	}
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ADDRESS...",
		Aliases: []string{"remove"},
		Short:   "Delete email address(es) from the subscriber list",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := service.NewSubscriberService(a.uow, a.log).Remove(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, address := range res.Applied {
				fmt.Fprintf(out, "Email %s successfully deleted.\n", address)
			}
			for _, address := range res.Skipped {
				fmt.Fprintf(out, "Email %s does not exist in the database.\n", address)
			}
			return nil
		},
	}
}
