package schema

// Sales is the input schema for raw sales events. Extra columns are
// tolerated; the transform drops them. Price may be zero or negative here so
// the financial-quality filter can report on such rows instead of the gate.
func Sales() *Schema {
	return &Schema{
		Name: "sales",
		Columns: map[string]Column{
			"sales_id":     {Type: Int},
			"product_id":   {Type: Int},
			"order_status": {Type: String},
			"qty":          {Type: Int, Check: GreaterThan(0)},
			"price":        {Type: Float},
			"discount":     {Type: Float, Nullable: true, Check: Between(0, 1)},
			"region":       {Type: String, Nullable: true},
			"time_stamp":   {Type: String},
		},
	}
}

// Products is the input schema for the product dimension. product_id is a
// declared-unique key: the left join assumes one dimension row per product,
// so duplicates are quarantined here rather than silently multiplying sales
// rows downstream.
func Products() *Schema {
	return &Schema{
		Name: "products",
		Columns: map[string]Column{
			"product_id": {Type: Int},
			"category":   {Type: String},
			"brand":      {Type: String},
			"rating":     {Type: Float, Nullable: true, Check: Between(0, 5)},
			"in_stock":   {Type: Bool, Nullable: true},
		},
		UniqueKey: "product_id",
	}
}

// Output is the strict schema for the enriched fact batch: the exact
// 14-column layout, everything required non-null except rating, with range
// checks on qty, discount and sale_hour.
func Output() *Schema {
	return &Schema{
		Name:   "output",
		Strict: true,
		Columns: map[string]Column{
			"sales_id":      {Type: Int},
			"product_id":    {Type: Int},
			"category":      {Type: String},
			"brand":         {Type: String},
			"region":        {Type: String},
			"qty":           {Type: Int, Check: GreaterThan(0)},
			"price":         {Type: Float},
			"discount":      {Type: Float, Check: Between(0, 1)},
			"revenue":       {Type: Float},
			"rating":        {Type: Float, Nullable: true},
			"is_in_stock":   {Type: Bool},
			"is_discounted": {Type: Bool},
			"sale_date":     {Type: Date},
			"sale_hour":     {Type: Int, Check: Between(0, 23)},
		},
	}
}

// OutputColumns is the fixed field order of the enriched record:
// identifiers, dimensions, measures, enrichment, flags, temporal.
var OutputColumns = []string{
	"sales_id",
	"product_id",
	"category",
	"brand",
	"region",
	"qty",
	"price",
	"discount",
	"revenue",
	"rating",
	"is_in_stock",
	"is_discounted",
	"sale_date",
	"sale_hour",
}
