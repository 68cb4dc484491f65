package commands

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/agrimarket/agrimarket/internal/cli/client"
)

func printProducts(out io.Writer, products []client.Product) {
	if len(products) == 0 {
		fmt.Fprintln(out, "  No products found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tAVAILABLE\tLOCATION\tFARMER")
	fmt.Fprintln(w, "──\t────\t────────\t─────\t─────────\t────────\t──────")

	for _, p := range products {
		farmer := ""
		if p.Farmer != nil {
			farmer = p.Farmer.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f/%s\t%d %s\t%s\t%s\n",
			p.ID,
			p.Name,
			p.Category,
			p.PricePerUnit, p.Unit,
			p.QuantityAvailable, p.Unit,
			p.Location,
			farmer,
		)
	}

	w.Flush()
}

func printOrders(out io.Writer, orders []client.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "  No orders found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tITEMS\tBUYER\tDELIVERY ADDRESS")
	fmt.Fprintln(w, "──\t──────\t─────\t─────\t─────\t────────────────")

	for _, o := range orders {
		buyer := ""
		if o.Buyer != nil {
			buyer = o.Buyer.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\t%s\n",
			o.ID,
			o.Status,
			o.TotalAmount,
			len(o.OrderItems),
			buyer,
			o.DeliveryAddress,
		)
	}

	w.Flush()
}

func printPrices(out io.Writer, prices []client.MarketPrice) {
	if len(prices) == 0 {
		fmt.Fprintln(out, "  No market prices recorded.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tCATEGORY\tAVG\tMIN\tMAX\tREGION\tTRADED\tDATE")
	fmt.Fprintln(w, "───────\t────────\t───\t───\t───\t──────\t──────\t────")

	for _, p := range prices {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%s\t%d\t%s\n",
			p.ProductName,
			p.Category,
			p.AveragePrice,
			p.MinPrice,
			p.MaxPrice,
			p.Region,
			p.TotalQuantityTraded,
			p.RecordDate,
		)
	}

	w.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printCounts(out io.Writer, counts map[string]int64) {
	if len(counts) == 0 {
		fmt.Fprintln(out, "  No products listed.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, category := range sortedKeys(counts) {
		fmt.Fprintf(w, "  %s\t%d\n", category, counts[category])
	}
	w.Flush()
}

func printTrends(out io.Writer, trends *client.MarketTrends) {
	fmt.Fprintln(out, "Market trends:")
	if len(trends.CategoryPrices) == 0 {
		fmt.Fprintln(out, "  No market prices recorded.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tLISTINGS\tAVG PRICE\tPRODUCTS")
	fmt.Fprintln(w, "────────\t────────\t─────────\t────────")

	for _, category := range sortedKeys(trends.CategoryPrices) {
		prices := trends.CategoryPrices[category]
		var sum float64
		for _, p := range prices {
			sum += p.AveragePrice
		}
		avg := 0.0
		if len(prices) > 0 {
			avg = sum / float64(len(prices))
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\n", category, trends.ProductCounts[category], avg, len(prices))
	}

	w.Flush()
}
