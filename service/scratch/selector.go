package scratch

import (
	"math/rand"
	"sync"
	"time"

	"github.com/VishalDET/ASG/model"
)

// Selector picks one offer from a candidate set with probability
// proportional to the offer weights. Pseudo randomness is enough here,
// the property protected is fairness of the perceived odds.
type Selector struct {
	mut sync.Mutex
	rng *rand.Rand
}

// NewSelector ...
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSelectorWithSource for deterministic draws in tests
func NewSelectorWithSource(source rand.Source) *Selector {
	return &Selector{
		rng: rand.New(source),
	}
}

// Pick draws a fresh selection on every call. The candidate set must not
// be empty, callers check eligibility first. When every weight is zero
// the draw is uniform over the candidates.
func (s *Selector) Pick(offers []model.Offer) model.Offer {
	if len(offers) == 0 {
		panic("scratch: pick from empty candidate set")
	}

	total := int64(0)
	for _, offer := range offers {
		if offer.Weight > 0 {
			total += offer.Weight
		}
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	if total == 0 {
		return offers[s.rng.Intn(len(offers))]
	}

	drawn := s.rng.Int63n(total)
	for _, offer := range offers {
		if offer.Weight <= 0 {
			continue
		}
		if drawn < offer.Weight {
			return offer
		}
		drawn -= offer.Weight
	}
	return offers[len(offers)-1]
}
