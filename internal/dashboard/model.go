package dashboard

// SalesLast7 aggregates the last seven days of sales.
type SalesLast7 struct {
	Units   int64   `json:"units"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Cost    float64 `json:"cost"`
}

// PurchaseLast7 aggregates the last seven days of purchasing.
type PurchaseLast7 struct {
	Orders       int64   `json:"orders"`
	Cost         float64 `json:"cost"`
	Returned     int64   `json:"returned"`
	ReturnedCost float64 `json:"returned_cost"`
	OnTheWay     int64   `json:"on_the_way"`
	OnTheWayCost float64 `json:"on_the_way_cost"`
}

// KPI is the headline block of the dashboard.
type KPI struct {
	TotalCategories int64         `json:"total_categories"`
	TotalProducts   int64         `json:"total_products"`
	TotalSuppliers  int64         `json:"total_suppliers"`
	TotalOrders     int64         `json:"total_orders"`
	QuantityInHand  int64         `json:"quantity_in_hand"`
	ToBeReceived    int64         `json:"to_be_received"`
	SalesLast7      SalesLast7    `json:"sales_last7"`
	PurchaseLast7   PurchaseLast7 `json:"purchase_last7"`
	LowStockCount   int64         `json:"low_stock_count"`
	OutOfStockCount int64         `json:"out_of_stock_count"`
	DelayedOrders   int64         `json:"delayed_orders"`
}

// SalesPurchasePoint is one month of the sales versus purchases chart.
type SalesPurchasePoint struct {
	Month     string  `json:"month"`
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
}

// OrderSummaryPoint is one month of the order trend.
type OrderSummaryPoint struct {
	Month     string `json:"month"`
	Ordered   int64  `json:"ordered"`
	Delivered int64  `json:"delivered"`
}

// TopProduct is a best seller row.
type TopProduct struct {
	Product   string  `json:"product"`
	Sold      int64   `json:"sold"`
	Remaining int64   `json:"remaining"`
	Price     float64 `json:"price"`
}

// LowStockItem is a product at or under its reorder threshold.
type LowStockItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Threshold int64  `json:"threshold"`
}

// Series names, also used as panel names.
const (
	SeriesSalesVsPurchases = "sales-vs-purchases"
	SeriesOrderSummary     = "order-summary"
	SeriesTopProducts      = "top-products"
	SeriesLowStock         = "low-stock"
)

// Snapshot is the whole dashboard. Each series carries its own error so one
// failing panel never hides the others.
type Snapshot struct {
	KPI              *KPI
	KPIErr           error
	SalesVsPurchases []SalesPurchasePoint
	OrderSummary     []OrderSummaryPoint
	TopProducts      []TopProduct
	LowStock         []LowStockItem
	Errs             map[string]error
}
