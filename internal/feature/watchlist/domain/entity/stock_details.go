package entity

// Placeholder は市況データが取得できなかったフィールドに表示する番兵値です。
const Placeholder = "—"

// StockDetails は1銘柄の表示用市況スナップショットです。
// 永続化されず、リクエストごとに外部APIから組み立てられます。
type StockDetails struct {
	Symbol             string
	Company            string
	CurrentPrice       float64
	ChangePercent      *float64 // nilは上流データなしを意味し、エラーではない
	PriceFormatted     string
	ChangeFormatted    string
	MarketCapFormatted string
	PERatio            *float64
}

// EnrichedEntry はウォッチリスト1件を市況データで補強した表示用の行です。
// 市況データが欠けた行はPlaceholder/nilで埋められ、行自体は失われません。
type EnrichedEntry struct {
	Symbol             string
	Company            string
	PriceFormatted     string
	ChangeFormatted    string
	ChangePercent      *float64
	MarketCapFormatted string
	PERatio            *float64
}
