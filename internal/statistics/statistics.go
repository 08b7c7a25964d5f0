package statistics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lox/holdem-showdown/poker"
)

// HandResult represents the outcome of a single simulated hand
type HandResult struct {
	Seed     int64   // RNG seed for this hand (for replay)
	Net      float64 // Net chips won or lost by the tracked seat
	Showdown bool    // Did the hand reach showdown?
	Pot      int     // Final pot size in chips

	// Showdown outcome, only meaningful when Showdown is set
	Category   poker.Category
	Winners    []string
	PotSplit   bool
	KickerTie  bool
	BoardPlays bool

	// Verified is set when the winners were cross-checked; Mismatch when the
	// cross-check disagreed.
	Verified bool
	Mismatch bool
}

// SeatStats tracks results for one seat
type SeatStats struct {
	Wins   int     // Hands won outright
	Splits int     // Hands where the seat shared the pot
	Share  float64 // Pots won, counting a split as a fraction
}

// Statistics aggregates simulation results
type Statistics struct {
	Hands  int
	SumNet float64
	SumSq  float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	ShowdownHands int
	Walkovers     int

	// Winning category frequency at showdown
	Categories [poker.StraightFlush + 1]int

	Draws       int // Showdowns with a split pot
	KickerDraws int // Draws that survived kicker comparison
	BoardDraws  int // Draws where the board played

	Seats map[string]*SeatStats

	MaxPot int

	Verified   int
	Mismatches int
}

// New creates empty statistics
func New() *Statistics {
	return &Statistics{Seats: make(map[string]*SeatStats)}
}

// Mean returns the arithmetic mean of the tracked seat's net chips per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumNet / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new hand result into the statistics
func (s *Statistics) Add(result HandResult) {
	if s.Seats == nil {
		s.Seats = make(map[string]*SeatStats)
	}
	s.Hands++
	s.SumNet += result.Net
	s.SumSq += result.Net * result.Net
	s.Values = append(s.Values, result.Net)

	if result.Pot > s.MaxPot {
		s.MaxPot = result.Pot
	}

	if result.Verified {
		s.Verified++
		if result.Mismatch {
			s.Mismatches++
		}
	}

	for _, id := range result.Winners {
		seat := s.seat(id)
		if len(result.Winners) == 1 {
			seat.Wins++
		} else {
			seat.Splits++
		}
		seat.Share += 1 / float64(len(result.Winners))
	}

	if !result.Showdown {
		s.Walkovers++
		return
	}
	s.ShowdownHands++
	if int(result.Category) < len(s.Categories) {
		s.Categories[result.Category]++
	}
	if result.PotSplit {
		s.Draws++
		if result.KickerTie {
			s.KickerDraws++
		}
		if result.BoardPlays {
			s.BoardDraws++
		}
	}
}

func (s *Statistics) seat(id string) *SeatStats {
	seat, ok := s.Seats[id]
	if !ok {
		seat = &SeatStats{}
		s.Seats[id] = seat
	}
	return seat
}

// Merge folds other into s, used to combine per-worker statistics
func (s *Statistics) Merge(other *Statistics) {
	if s.Seats == nil {
		s.Seats = make(map[string]*SeatStats)
	}
	s.Hands += other.Hands
	s.SumNet += other.SumNet
	s.SumSq += other.SumSq
	s.Values = append(s.Values, other.Values...)
	s.ShowdownHands += other.ShowdownHands
	s.Walkovers += other.Walkovers
	for i, n := range other.Categories {
		s.Categories[i] += n
	}
	s.Draws += other.Draws
	s.KickerDraws += other.KickerDraws
	s.BoardDraws += other.BoardDraws
	for id, o := range other.Seats {
		seat := s.seat(id)
		seat.Wins += o.Wins
		seat.Splits += o.Splits
		seat.Share += o.Share
	}
	s.MaxPot = max(s.MaxPot, other.MaxPot)
	s.Verified += other.Verified
	s.Mismatches += other.Mismatches
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// CategoryRate returns how often showdowns were won with category c
func (s *Statistics) CategoryRate(c poker.Category) float64 {
	if s.ShowdownHands == 0 || int(c) >= len(s.Categories) {
		return 0
	}
	return float64(s.Categories[c]) / float64(s.ShowdownHands)
}

// WinShare returns the fraction of pots won by seat id
func (s *Statistics) WinShare(id string) float64 {
	seat, ok := s.Seats[id]
	if !ok || s.Hands == 0 {
		return 0
	}
	return seat.Share / float64(s.Hands)
}

// SeatFairness tests whether pot shares are spread evenly across the given
// seats. It returns the chi-squared statistic and its p-value; a small p-value
// means some seat won more often than chance allows.
func (s *Statistics) SeatFairness(ids []string) (chi2, pValue float64) {
	if len(ids) < 2 || s.Hands == 0 {
		return 0, 1
	}
	expected := float64(s.Hands) / float64(len(ids))
	for _, id := range ids {
		share := 0.0
		if seat, ok := s.Seats[id]; ok {
			share = seat.Share
		}
		d := share - expected
		chi2 += d * d / expected
	}
	dist := distuv.ChiSquared{K: float64(len(ids) - 1)}
	return chi2, dist.Survival(chi2)
}

// Validate performs consistency checks on the aggregated data
func (s *Statistics) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}

	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}

	if s.ShowdownHands+s.Walkovers != s.Hands {
		return fmt.Errorf("showdowns (%d) and walkovers (%d) do not add up to %d hands",
			s.ShowdownHands, s.Walkovers, s.Hands)
	}

	categorised := 0
	for _, n := range s.Categories {
		categorised += n
	}
	if categorised != s.ShowdownHands {
		return fmt.Errorf("category total (%d) does not match showdown hands (%d)", categorised, s.ShowdownHands)
	}

	if s.KickerDraws > s.Draws || s.BoardDraws > s.Draws {
		return fmt.Errorf("kicker draws (%d) or board draws (%d) exceed draws (%d)",
			s.KickerDraws, s.BoardDraws, s.Draws)
	}

	share := 0.0
	for _, seat := range s.Seats {
		share += seat.Share
	}
	if math.Abs(share-float64(s.Hands)) > 1e-6 {
		return fmt.Errorf("pot shares (%.6f) do not add up to hands (%d)", share, s.Hands)
	}

	if s.Mismatches > s.Verified {
		return fmt.Errorf("mismatches (%d) exceed verified hands (%d)", s.Mismatches, s.Verified)
	}
	return nil
}
