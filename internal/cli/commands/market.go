package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/cli/client"
)

// NewMarketCmd creates the market command group
func NewMarketCmd(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Market prices and trends",
	}

	cmd.AddCommand(newMarketPricesCmd(factory))
	cmd.AddCommand(newMarketTrendsCmd(factory))

	return cmd
}

func newMarketPricesCmd(factory AppFactory) *cobra.Command {
	var q client.PriceQuery

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show the latest market prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				prices, err := a.api.ListMarketPrices(ctx, q)
				if err != nil {
					return err
				}
				printPrices(a.out, prices)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&q.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&q.ProductName, "product", "", "Filter by product name")
	cmd.Flags().StringVar(&q.Region, "region", "", "Filter by region")
	cmd.Flags().IntVar(&q.Limit, "limit", 20, "Maximum number of prices")

	return cmd
}

func newMarketTrendsCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "trends",
		Short: "Show prices and listings per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				trends, err := a.api.MarketTrends(ctx)
				if err != nil {
					return err
				}
				printTrends(a.out, trends)
				return nil
			})
		},
	}
}
