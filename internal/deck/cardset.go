package deck

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrDuplicateCard is returned when a card is inserted into a CardSet that
// already contains it.
var ErrDuplicateCard = errors.New("duplicate card")

// CardSet represents a set of cards from the 52-card deck as a bitset.
// Bit position is Card.Index(). The zero value is the empty set.
type CardSet uint64

const fullDeck CardSet = (1 << 52) - 1

// NewCardSet builds a set from cards, failing on duplicates.
func NewCardSet(cards ...Card) (CardSet, error) {
	var cs CardSet
	for _, c := range cards {
		if err := cs.Add(c); err != nil {
			return 0, err
		}
	}
	return cs, nil
}

// Add inserts a card, failing with ErrDuplicateCard if it is already present.
func (cs *CardSet) Add(c Card) error {
	bit := CardSet(1) << c.Index()
	if *cs&bit != 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
	}
	*cs |= bit
	return nil
}

// Contains reports whether the card is in the set.
func (cs CardSet) Contains(c Card) bool {
	return cs&(1<<c.Index()) != 0
}

// Len returns the number of cards in the set.
func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs))
}

// Remaining returns the deck complement in Index order.
func (cs CardSet) Remaining() []Card {
	rest := uint64(fullDeck &^ cs)
	out := make([]Card, 0, bits.OnesCount64(rest))
	for rest != 0 {
		i := bits.TrailingZeros64(rest)
		out = append(out, CardFromIndex(i))
		rest &= rest - 1
	}
	return out
}
