package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/cli/client"
)

// NewProductsCmd creates the products command group
func NewProductsCmd(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage marketplace products",
	}

	cmd.AddCommand(newProductsListCmd(factory))
	cmd.AddCommand(newProductsMineCmd(factory))
	cmd.AddCommand(newProductsAddCmd(factory))

	return cmd
}

func newProductsListCmd(factory AppFactory) *cobra.Command {
	var q client.ProductQuery

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List available products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}

				page, err := a.api.ListProducts(ctx, q)
				if err != nil {
					return err
				}

				printProducts(a.out, page.Content)
				fmt.Fprintf(a.out, "\nPage %d of %d (%d products)\n", page.Number+1, max(page.TotalPages, 1), page.TotalElements)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&q.Page, "page", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&q.Size, "size", 10, "Page size")
	cmd.Flags().StringVar(&q.SortBy, "sort", "createdAt", "Sort field")
	cmd.Flags().StringVar(&q.SortDir, "dir", "desc", "Sort direction: asc or desc")
	cmd.Flags().StringVar(&q.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&q.Search, "search", "", "Filter by name")

	return cmd
}

func newProductsMineCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own products (farmers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}

				products, err := a.api.MyProducts(ctx)
				if err != nil {
					return err
				}

				printProducts(a.out, products)
				return nil
			})
		},
	}
}

func newProductsAddCmd(factory AppFactory) *cobra.Command {
	var req client.ProductRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "List a new product for sale (farmers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				if _, err := a.requireUser(); err != nil {
					return err
				}
				if req.Name == "" || req.Category == "" || req.PricePerUnit <= 0 || req.QuantityAvailable <= 0 {
					return fmt.Errorf("--name, --category, --price and --quantity are required")
				}
				req.Category = strings.ToUpper(req.Category)

				product, err := a.api.AddProduct(ctx, req)
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "✓ Product '%s' listed (id %d)\n", product.Name, product.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&req.Category, "category", "", "Category, e.g. VEGETABLES, FRUITS, GRAINS")
	cmd.Flags().Float64Var(&req.PricePerUnit, "price", 0, "Price per unit")
	cmd.Flags().StringVar(&req.Unit, "unit", "kg", "Unit of sale")
	cmd.Flags().IntVar(&req.QuantityAvailable, "quantity", 0, "Quantity available")
	cmd.Flags().StringVar(&req.Location, "location", "", "Location")
	cmd.Flags().StringVar(&req.Quality, "quality", "", "Quality grade")

	return cmd
}
