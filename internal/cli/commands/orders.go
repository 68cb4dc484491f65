package commands

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/cli/client"
)

// NewOrdersCmd creates the orders command group
func NewOrdersCmd(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place and track orders",
	}

	cmd.AddCommand(newOrdersListCmd(factory))
	cmd.AddCommand(newOrdersFarmerCmd(factory))
	cmd.AddCommand(newOrdersStatsCmd(factory))
	cmd.AddCommand(newOrdersCreateCmd(factory))
	cmd.AddCommand(newOrdersStatusCmd(factory))

	return cmd
}

func newOrdersListCmd(factory AppFactory) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your orders (buyers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}

				orders, err := a.api.MyOrders(ctx, page, size)
				if err != nil {
					return err
				}
				printOrders(a.out, orders.Content)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")

	return cmd
}

func newOrdersFarmerCmd(factory AppFactory) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "farmer",
		Short: "List orders for your products (farmers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}

				orders, err := a.api.FarmerOrders(ctx, page, size)
				if err != nil {
					return err
				}
				printOrders(a.out, orders.Content)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")

	return cmd
}

func newOrdersStatsCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your sales summary (farmers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}

				stats, err := a.api.OrderStatistics(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Total orders:   %d\n", stats.TotalOrders)
				fmt.Fprintf(a.out, "Total earnings: %.2f\n", stats.TotalEarnings)
				return nil
			})
		},
	}
}

// parseOrderItem parses "<productId>:<quantity>"
func parseOrderItem(s string) (client.OrderItemRequest, error) {
	id, qty, ok := strings.Cut(s, ":")
	if !ok {
		qty = "1"
	}

	productID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return client.OrderItemRequest{}, fmt.Errorf("invalid item %q: product id must be a number", s)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || quantity <= 0 {
		return client.OrderItemRequest{}, fmt.Errorf("invalid item %q: quantity must be a positive number", s)
	}

	return client.OrderItemRequest{ProductID: productID, Quantity: quantity}, nil
}

func newOrdersCreateCmd(factory AppFactory) *cobra.Command {
	var (
		address string
		notes   string
		items   []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order (buyers)",
		Example: `  agrimarket orders create --address "1 Farm Road" --item 3:10 --item 7:2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				return fmt.Errorf("--address is required")
			}
			if len(items) == 0 {
				return fmt.Errorf("at least one --item <productId>:<quantity> is required")
			}

			req := client.OrderRequest{DeliveryAddress: address, Notes: notes}
			for _, s := range items {
				item, err := parseOrderItem(s)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, item)
			}

			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}

				order, err := a.api.CreateOrder(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "✓ Order %d placed (%s, total %.2f)\n", order.ID, order.Status, order.TotalAmount)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Delivery address")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the farmer")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Item as <productId>:<quantity> (repeatable)")

	return cmd
}

func newOrdersStatusCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Update the status of an order",
		Long: fmt.Sprintf(`Update the status of an order.

Statuses: %s`, strings.Join(client.OrderStatuses, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			status := strings.ToUpper(args[1])
			if !slices.Contains(client.OrderStatuses, status) {
				return fmt.Errorf("invalid status %q, must be one of: %s", args[1], strings.Join(client.OrderStatuses, ", "))
			}

			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}

				order, err := a.api.UpdateOrderStatus(ctx, orderID, status)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "✓ Order %d is now %s\n", order.ID, order.Status)
				return nil
			})
		},
	}
}
