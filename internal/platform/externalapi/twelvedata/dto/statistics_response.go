package dto

// StatisticsResponse represents the JSON response from the /statistics endpoint.
// Numeric fields are null when the provider has no value.
type StatisticsResponse struct {
	Status     string     `json:"status,omitempty"`
	Code       int        `json:"code,omitempty"`
	Message    string     `json:"message,omitempty"`
	Statistics Statistics `json:"statistics"`
}

// Statistics groups the sections used for fundamentals.
type Statistics struct {
	Valuations        ValuationsMetrics `json:"valuations_metrics"`
	Financials        Financials        `json:"financials"`
	StockPriceSummary StockPriceSummary `json:"stock_price_summary"`
}

type ValuationsMetrics struct {
	MarketCapitalization *float64 `json:"market_capitalization"`
	ForwardPE            *float64 `json:"forward_pe"`
	PriceToBookMRQ       *float64 `json:"price_to_book_mrq"`
}

type Financials struct {
	ProfitMargin    *float64        `json:"profit_margin"`
	IncomeStatement IncomeStatement `json:"income_statement"`
	BalanceSheet    BalanceSheet    `json:"balance_sheet"`
}

type IncomeStatement struct {
	QuarterlyRevenueGrowth *float64 `json:"quarterly_revenue_growth"`
}

type BalanceSheet struct {
	TotalDebtToEquityMRQ *float64 `json:"total_debt_to_equity_mrq"`
}

type StockPriceSummary struct {
	Beta *float64 `json:"beta"`
}

// ProfileResponse represents the JSON response from the /profile endpoint.
type ProfileResponse struct {
	Status   string `json:"status,omitempty"`
	Code     int    `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}
