// mkfixture writes a small sample sales.csv and products.json pair for local
// runs and tests. The sales file deliberately includes a few rows that break
// the input schema or the transform filters, so a run over the fixtures
// exercises the quarantine paths.
// Usage: go run ./cmd/mkfixture --dir testdata --rows 200
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

var (
	regions    = []string{"us", "EU", "apac", "LATAM", ""}
	statuses   = []string{"Completed", "Completed", "Completed", "Completed", "Pending", "Cancelled"}
	categories = []string{"Electronics", "Clothing", "Home", "Sports", "Toys"}
	brands     = []string{"Acme", "Globex", "Initech", "Umbrella", "Stark"}
	stamps     = []string{
		"2026-01-%02d",
		"2026-01-%02d 10:30",
		"01/%02d/2026",
		"2026-01-%02dT14:05:00",
	}
)

func main() {
	dir := "testdata"
	rows := 200
	if len(os.Args) > 1 {
		for i := 1; i < len(os.Args)-1; i++ {
			switch os.Args[i] {
			case "--dir":
				dir = os.Args[i+1]
			case "--rows":
				if n, err := strconv.Atoi(os.Args[i+1]); err == nil {
					rows = n
				}
			}
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(7))

	if err := writeSales(filepath.Join(dir, "sales_data.csv"), rows, rng); err != nil {
		fmt.Fprintf(os.Stderr, "write sales: %v\n", err)
		os.Exit(1)
	}
	if err := writeProducts(filepath.Join(dir, "product_data.json"), rng); err != nil {
		fmt.Fprintf(os.Stderr, "write products: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("fixtures written to %s (%d sales rows)\n", dir, rows)
}

func writeSales(path string, rows int, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	// Mixed-case header with a space, to exercise normalization.
	if err := w.Write([]string{"Sales ID", "product_id", "order_status", "qty", "price", "discount", "region", "time_stamp"}); err != nil {
		return err
	}

	for i := 1; i <= rows; i++ {
		qty := 1 + rng.Intn(9)
		price := 5 + rng.Float64()*195
		discount := ""
		if rng.Intn(3) > 0 {
			discount = strconv.FormatFloat(float64(rng.Intn(5))/10, 'g', -1, 64)
		}

		// A sprinkle of rows the gates and filters should remove.
		switch i % 37 {
		case 5:
			qty = -qty // quarantined by the sales schema
		case 11:
			price = -price // removed by the financial filter
		case 23:
			discount = "1.5" // out of range, quarantined
		}

		day := 1 + rng.Intn(28)
		stamp := fmt.Sprintf(stamps[rng.Intn(len(stamps))], day)
		if i%53 == 17 {
			stamp = "not-a-date" // null timestamp, rejected at the output gate
		}

		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(100 + rng.Intn(30)),
			statuses[rng.Intn(len(statuses))],
			strconv.Itoa(qty),
			strconv.FormatFloat(price, 'f', 2, 64),
			discount,
			regions[rng.Intn(len(regions))],
			stamp,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeProducts(path string, rng *rand.Rand) error {
	type product struct {
		ProductID int      `json:"product_id"`
		Category  string   `json:"category"`
		Brand     string   `json:"brand"`
		Rating    *float64 `json:"rating"`
		InStock   *bool    `json:"in_stock"`
	}

	// IDs 100-124: sales rows referencing 125-129 exercise the unmatched
	// left-join path.
	products := make([]product, 0, 25)
	for id := 100; id < 125; id++ {
		p := product{
			ProductID: id,
			Category:  categories[rng.Intn(len(categories))],
			Brand:     brands[rng.Intn(len(brands))],
		}
		if rng.Intn(4) > 0 {
			r := float64(rng.Intn(51)) / 10
			p.Rating = &r
		}
		if rng.Intn(5) > 0 {
			b := rng.Intn(2) == 0
			p.InStock = &b
		}
		products = append(products, p)
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
