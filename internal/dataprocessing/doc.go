// Package dataprocessing loads raw Shopee and TikTok seller-centre exports
// and normalizes them into the domain types the analytics pipeline consumes.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Loader: reads order and performance export files (Excel and CSV)
// 2. Column translation: maps the exports' localized (Thai) headers onto
//    the canonical schema
// 3. Transform: converts normalized order items into basket transactions,
//    customer order histories and daily sales rows
//
// # Usage
//
// Basic loading example:
//
//	loader := dataprocessing.NewLoader(logger)
//	items, err := loader.LoadOrderDir(ctx, "data/Shopee orders", domain.PlatformShopee)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	txns := dataprocessing.Transactions(items)
//
// # Error Handling
//
// Directory loaders treat individual files as untrusted operator input:
// a file that cannot be parsed is logged and skipped, it never fails the
// whole run. Malformed numeric cells parse to zero, matching how the
// marketplace exports themselves pad missing metrics.
package dataprocessing
