// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem is one watchlist entry in the API response.
type SymbolItem struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// ErrorResponse is returned when the watchlist cannot be read.
type ErrorResponse struct {
	Error string `json:"error"`
}
