// Package entity はwatchlistフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// WatchlistEntry はあるユーザーのウォッチリストに登録された1銘柄を表します。
// (owner_key, symbol) の複合一意インデックスにより、同一ユーザー・同一銘柄の
// 行は常に最大1件であることをDBレベルで保証します。
type WatchlistEntry struct {
	// ID is the unique identifier for the entry.
	ID uint `gorm:"primaryKey"`

	// OwnerKey is the stable identifier of the owning user
	// (the JWT subject claim, rendered as a string).
	OwnerKey string `gorm:"uniqueIndex:idx_owner_symbol;size:64;not null"`

	// Symbol is the stock ticker, stored normalized to upper case.
	Symbol string `gorm:"uniqueIndex:idx_owner_symbol;size:16;not null"`

	// Company is the display name captured at the time of adding.
	Company string `gorm:"size:255;not null"`

	// AddedAt is when the entry was added; listing is newest-first.
	AddedAt time.Time `gorm:"autoCreateTime;index"`
}
