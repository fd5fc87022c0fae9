// Package usecase はwatchlistフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrAlreadyInWatchlist is returned when adding a symbol that is already
	// in the owner's watchlist.
	ErrAlreadyInWatchlist = errors.New("stock already in watchlist")

	// ErrEmptySymbol is returned when an operation is attempted without a symbol.
	ErrEmptySymbol = errors.New("symbol is required")
)
