package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheapestPicksMinimum(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	quotes := []Quote{
		{CounterpartyID: a, Price: dec("12.40")},
		{CounterpartyID: b, Price: dec("11.95")},
		{CounterpartyID: c, Price: dec("13.00")},
	}
	best, ok := Cheapest(quotes)
	if !ok {
		t.Fatal("expected a winner")
	}
	if best.CounterpartyID != b {
		t.Errorf("winner = %s, want %s", best.CounterpartyID, b)
	}
}

func TestCheapestTieBreakIsDeterministic(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	forward := []Quote{
		{CounterpartyID: a, Price: dec("10.00")},
		{CounterpartyID: b, Price: dec("10.00")},
	}
	reversed := []Quote{forward[1], forward[0]}

	first, _ := Cheapest(forward)
	second, _ := Cheapest(reversed)
	if first.CounterpartyID != a || second.CounterpartyID != a {
		t.Errorf("tie must resolve to lowest id regardless of order: got %s and %s",
			first.CounterpartyID, second.CounterpartyID)
	}
}

func TestCheapestEmpty(t *testing.T) {
	if _, ok := Cheapest(nil); ok {
		t.Error("no quotes must yield no winner")
	}
}

func TestResolveMaterialFallsBackToLibrary(t *testing.T) {
	res := ResolveMaterial(nil, dec("8.50"))
	if res.Kind != model.PriceSourceLibrary {
		t.Errorf("kind = %s, want library", res.Kind)
	}
	if !res.Price.Equal(dec("8.50")) {
		t.Errorf("price = %s, want 8.50", res.Price)
	}
	if res.CounterpartyID != nil {
		t.Error("library fallback must not carry a counterparty")
	}
}

func TestResolveMaterialPrefersSupplier(t *testing.T) {
	supplier := uuid.New()
	res := ResolveMaterial([]Quote{{CounterpartyID: supplier, Price: dec("7.90")}}, dec("8.50"))
	if res.Kind != model.PriceSourceSupplier {
		t.Errorf("kind = %s, want supplier", res.Kind)
	}
	if res.CounterpartyID == nil || *res.CounterpartyID != supplier {
		t.Error("supplier id must be recorded")
	}
}

func TestResolveLaborChain(t *testing.T) {
	sub := uuid.New()
	res := ResolveLabor([]Quote{{CounterpartyID: sub, Price: dec("18.00")}}, dec("20.00"), true)
	if res.Kind != model.PriceSourceSubcontractor || !res.Price.Equal(dec("18.00")) {
		t.Errorf("got %s/%s, want subcontractor/18.00", res.Kind, res.Price)
	}

	res = ResolveLabor(nil, dec("20.00"), true)
	if res.Kind != model.PriceSourceLibrary || !res.Price.Equal(dec("20.00")) {
		t.Errorf("got %s/%s, want library/20.00", res.Kind, res.Price)
	}

	res = ResolveLabor(nil, decimal.Zero, false)
	if res.Kind != model.PriceSourceManual || !res.Price.IsZero() {
		t.Errorf("got %s/%s, want manual/0", res.Kind, res.Price)
	}
}
