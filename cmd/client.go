package cmd

import (
	"context"
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/foomo/guitarserver/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewListCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the guitars of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(v)
			if err != nil {
				return err
			}
			items, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\n", item.Name, item.Link)
			}
			return w.Flush()
		},
	}
	addClientFlags(cmd, v)
	return cmd
}

func NewCreateCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Add a guitar to a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(v)
			if err != nil {
				return err
			}
			item, err := c.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.Link)
			return nil
		},
	}
	addClientFlags(cmd, v)
	return cmd
}

func NewDeleteCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "delete <address>",
		Short: "Delete a guitar by the address printed by list or create",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			c, err := newClient(v)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			items, err := c.List(context.Background())
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			comps := make([]string, 0, len(items))
			for _, item := range items {
				comps = append(comps, item.Link+"\t"+item.Name)
			}
			return comps, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(v)
			if err != nil {
				return err
			}
			return c.Delete(cmd.Context(), args[0])
		},
	}
	addClientFlags(cmd, v)
	return cmd
}

func addClientFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	addServerURLFlag(flags, v)
	addBasePathFlag(flags, v)
	addClientTimeoutFlag(flags, v)
}

func newClient(v *viper.Viper) (*client.Client, error) {
	return client.New(serverURLFlag(v),
		client.WithBasePath(basePathFlag(v)),
		client.WithHTTPClient(&http.Client{Timeout: clientTimeoutFlag(v)}),
	)
}
