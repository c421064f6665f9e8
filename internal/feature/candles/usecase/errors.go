package usecase

import "errors"

// ErrEmptySymbol は銘柄コードが空の場合に返されます。
var ErrEmptySymbol = errors.New("symbol must not be empty")
