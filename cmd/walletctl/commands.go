package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"marketplace-core/internal/adapter/http/dto"
	"marketplace-core/internal/walletstore"
	"marketplace-core/pkg/client"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MKT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "walletctl",
		Short:         "Inspect your marketplace wallet and update seller orders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api-url", "http://localhost:8080", "marketplace API base URL (env MKT_API_URL)")
	root.PersistentFlags().String("token", "", "bearer token of the signed-in user (env MKT_TOKEN)")
	_ = v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("token", root.PersistentFlags().Lookup("token"))

	newClient := func() *client.Client {
		return client.New(v.GetString("api_url"), v.GetString("token"))
	}

	root.AddCommand(
		walletCmd(newClient),
		transactionsCmd(newClient),
		orderActionCmd("mark-processing", "Mark an order item as processing", func(c *client.Client, cmd *cobra.Command, id uuid.UUID) (*dto.OrderItemResponse, error) {
			return c.MarkProcessing(cmd.Context(), id)
		}, newClient),
		orderActionCmd("mark-delivered", "Mark an order item as delivered", func(c *client.Client, cmd *cobra.Command, id uuid.UUID) (*dto.OrderItemResponse, error) {
			return c.MarkDelivered(cmd.Context(), id)
		}, newClient),
	)
	return root
}

func walletCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Show the wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := walletstore.New(newClient())
			defer store.Close()

			if err := store.FetchWallet(cmd.Context()); err != nil {
				return err
			}
			w := store.Wallet()
			if w == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no wallet yet")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), dto.WalletBalanceResponse{Balance: w.Balance, Currency: w.Currency})
		},
	}
}

func transactionsCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "transactions",
		Short: "List the most recent wallet transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := walletstore.New(newClient())
			defer store.Close()

			if err := store.FetchTransactions(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.ToTransactionResponses(store.Transactions()))
		},
	}
}

type orderAction func(c *client.Client, cmd *cobra.Command, id uuid.UUID) (*dto.OrderItemResponse, error)

func orderActionCmd(use, short string, action orderAction, newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order-item-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order item id %q: %w", args[0], err)
			}
			item, err := action(newClient(), cmd, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
