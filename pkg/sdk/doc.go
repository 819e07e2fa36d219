// Package retaildex embeds the retaildex hybrid product search in a Go program.
//
// Products come from a CSV export, a static slice or any ProductSource. An
// optional VectorSearcher supplies a semantic ranking that is fused with the
// built-in TF-IDF ranking by reciprocal rank fusion.
//
//	client, _ := retaildex.New(ctx,
//	    retaildex.WithProductsCSV("data/products.csv"),
//	    retaildex.WithDatabricks(host, "retail.products_idx", token),
//	)
//	defer client.Close()
//	hits, _ := client.Search(ctx, "red apples", 10)
package retaildex
