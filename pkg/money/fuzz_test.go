package money_test

import (
	"testing"

	"github.com/amirasaad/ledger/pkg/money"
)

// FuzzRoundTrip checks that subtracting then adding the same amount restores the balance.
func FuzzRoundTrip(f *testing.F) {
	f.Add(int64(1110), int64(500))
	f.Add(int64(57885), int64(54321))
	f.Add(int64(0), int64(1))

	f.Fuzz(func(t *testing.T, balanceCents, amountCents int64) {
		if balanceCents < 0 || amountCents <= 0 || balanceCents > 1e15 || amountCents > 1e15 {
			t.Skip("out of range")
		}
		balance, err := money.New(float64(balanceCents) / 100)
		if err != nil {
			t.Skip("not representable as float")
		}
		amount, err := money.New(float64(amountCents) / 100)
		if err != nil {
			t.Skip("not representable as float")
		}
		got := balance.Sub(amount).Add(amount)
		if !got.Equal(balance) {
			t.Errorf("round trip changed balance: got %s, want %s", got, balance)
		}
	})
}
