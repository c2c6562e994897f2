package stripe

import stripego "github.com/stripe/stripe-go/v75"

// Expansions a checkout session fetch needs for NetAmountCents to see the
// settled balance transaction.
var NetAmountExpansions = []string{
	"invoice.charge.balance_transaction",
	"payment_intent.latest_charge.balance_transaction",
}

// NetAmountCents is what the processor settles for a completed checkout,
// after its fee. Falls back to the gross AmountTotal when no balance
// transaction was expanded (or none exists yet).
func NetAmountCents(s *stripego.CheckoutSession) int64 {
	if s == nil {
		return 0
	}
	if bt := balanceTransaction(s); bt != nil {
		return bt.Net
	}
	return s.AmountTotal
}

func balanceTransaction(s *stripego.CheckoutSession) *stripego.BalanceTransaction {
	var charges []*stripego.Charge
	if s.Invoice != nil {
		charges = append(charges, s.Invoice.Charge)
	}
	if s.PaymentIntent != nil {
		charges = append(charges, s.PaymentIntent.LatestCharge)
	}
	for _, ch := range charges {
		if ch == nil || ch.BalanceTransaction == nil {
			continue
		}
		// an unexpanded reference only carries the ID
		if ch.BalanceTransaction.Object != "balance_transaction" {
			continue
		}
		return ch.BalanceTransaction
	}
	return nil
}
