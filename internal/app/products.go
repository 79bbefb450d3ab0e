package app

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

// Products lists every product with its observation count and date span.
func (a *App) Products(ctx context.Context) error {
	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Product\tObservations\tFirst\tLast")
	for _, product := range store.Products() {
		first, last, err := store.Span(product)
		if err != nil {
			return err
		}
		fmt.Fprintf(writer, "%s\t%d\t%s\t%s\n",
			product,
			store.Count(product),
			first.Format(time.DateOnly),
			last.Format(time.DateOnly),
		)
	}
	return writer.Flush()
}
