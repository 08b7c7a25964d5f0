package table

// SplitPot divides pot between winners in seat order. Every winner gets an equal
// share and the odd chips go one at a time to the earliest seats.
func SplitPot(pot int, winners []string) map[string]int {
	payouts := make(map[string]int, len(winners))
	if len(winners) == 0 || pot <= 0 {
		return payouts
	}
	share, remainder := pot/len(winners), pot%len(winners)
	for i, id := range winners {
		payouts[id] = share
		if i < remainder {
			payouts[id]++
		}
	}
	return payouts
}

// Refund returns every seat's contribution, used when a hand cannot be resolved
func Refund(contributions map[string]int) map[string]int {
	payouts := make(map[string]int, len(contributions))
	for id, amount := range contributions {
		payouts[id] = amount
	}
	return payouts
}
