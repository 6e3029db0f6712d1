// Package pricing resolves the cheapest active counterparty price for a
// product or library position. Both the position-add and reset-to-library
// paths go through the same resolution so the tie-break rule lives in one
// place.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

// Quote is one counterparty's active price.
type Quote struct {
	CounterpartyID uuid.UUID
	Price          decimal.Decimal
}

// Resolution is the outcome of a cheapest-price lookup.
type Resolution struct {
	Price          decimal.Decimal
	Kind           model.PriceSourceKind
	CounterpartyID *uuid.UUID
}

// Cheapest picks the minimum-price quote. On equal prices the lowest
// counterparty id (lexicographic over the UUID string) wins, so the result
// is deterministic regardless of input order.
func Cheapest(quotes []Quote) (Quote, bool) {
	if len(quotes) == 0 {
		return Quote{}, false
	}
	best := quotes[0]
	for _, q := range quotes[1:] {
		switch {
		case q.Price.LessThan(best.Price):
			best = q
		case q.Price.Equal(best.Price) && q.CounterpartyID.String() < best.CounterpartyID.String():
			best = q
		}
	}
	return best, true
}

// ResolveMaterial resolves a material component price: cheapest active
// supplier price, falling back to the library default.
func ResolveMaterial(quotes []Quote, libraryDefault decimal.Decimal) Resolution {
	if best, ok := Cheapest(quotes); ok {
		id := best.CounterpartyID
		return Resolution{Price: best.Price, Kind: model.PriceSourceSupplier, CounterpartyID: &id}
	}
	return Resolution{Price: libraryDefault, Kind: model.PriceSourceLibrary}
}

// ResolveLabor resolves a position's flat labor price: cheapest active
// subcontractor rate, then the library default, then zero with manual
// provenance. A missing price is not an error.
func ResolveLabor(quotes []Quote, libraryDefault decimal.Decimal, hasLibraryDefault bool) Resolution {
	if best, ok := Cheapest(quotes); ok {
		id := best.CounterpartyID
		return Resolution{Price: best.Price, Kind: model.PriceSourceSubcontractor, CounterpartyID: &id}
	}
	if hasLibraryDefault {
		return Resolution{Price: libraryDefault, Kind: model.PriceSourceLibrary}
	}
	return Resolution{Price: decimal.Zero, Kind: model.PriceSourceManual}
}
