package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/kyager/retailfact/internal/config"
	"github.com/kyager/retailfact/internal/table"
)

// ObjectStore is the slice of the object-store client the pipeline needs.
type ObjectStore interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// extractResult carries the decoded raw batches plus provenance metadata.
type extractResult struct {
	Sales       *table.Batch
	Products    *table.Batch
	SalesSource string
	SalesSHA256 string
}

// extract fetches the two raw inputs (object store or local files), decodes
// them into batches with normalized headers, and fingerprints the sales
// payload for run provenance.
func extract(ctx context.Context, store ObjectStore, cfg *config.Config) (*extractResult, error) {
	var salesData, productsData []byte
	var salesSource string
	var err error

	if cfg.UseObjectStore() {
		if store == nil {
			return nil, fmt.Errorf("object store configured but no client provided")
		}
		salesSource = fmt.Sprintf("s3://%s/%s", cfg.S3.Bucket, cfg.SalesObjectKey())
		if salesData, err = store.Fetch(ctx, cfg.SalesObjectKey()); err != nil {
			return nil, err
		}
		if productsData, err = store.Fetch(ctx, cfg.ProductsObjectKey()); err != nil {
			return nil, err
		}
	} else {
		salesSource = cfg.SalesFile
		if salesData, err = os.ReadFile(cfg.SalesFile); err != nil {
			return nil, fmt.Errorf("read sales file: %w", err)
		}
		if productsData, err = os.ReadFile(cfg.ProductsFile); err != nil {
			return nil, fmt.Errorf("read products file: %w", err)
		}
	}

	sales, err := table.DecodeCSV(bytesReader(salesData))
	if err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	products, err := table.DecodeJSON(productsData)
	if err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	return &extractResult{
		Sales:       sales,
		Products:    products,
		SalesSource: salesSource,
		SalesSHA256: fmt.Sprintf("%x", sha256.Sum256(salesData)),
	}, nil
}
