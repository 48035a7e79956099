package types

import (
	"errors"
	"fmt"
	"strings"

	poker "github.com/paulhankin/poker"
)

var ErrUnknownCard = errors.New("unknown card")

// Card is the authority's card code: rank then suit, e.g. "As", "Td", "10h".
type Card string

var suitSymbols = map[poker.Suit]string{
	poker.Club:    "♣",
	poker.Diamond: "♦",
	poker.Heart:   "♥",
	poker.Spade:   "♠",
}

// Parse validates the code and converts it to the evaluator's card type.
func (c Card) Parse() (poker.Card, error) {
	var zero poker.Card
	r, s, err := c.split()
	if err != nil {
		return zero, err
	}
	pc, err := poker.MakeCard(s, r)
	if err != nil {
		return zero, fmt.Errorf("%w %q: %v", ErrUnknownCard, string(c), err)
	}
	return pc, nil
}

// Pretty renders the card with a suit symbol, "A♠". Invalid codes come back
// unchanged.
func (c Card) Pretty() string {
	r, s, err := c.split()
	if err != nil {
		return string(c)
	}
	return rankLabel(r) + suitSymbols[s]
}

func (c Card) split() (poker.Rank, poker.Suit, error) {
	code := strings.TrimSpace(string(c))
	if len(code) < 2 {
		return 0, 0, fmt.Errorf("%w %q", ErrUnknownCard, string(c))
	}
	rankPart, suitPart := code[:len(code)-1], code[len(code)-1:]

	var s poker.Suit
	switch strings.ToLower(suitPart) {
	case "c":
		s = poker.Club
	case "d":
		s = poker.Diamond
	case "h":
		s = poker.Heart
	case "s":
		s = poker.Spade
	default:
		return 0, 0, fmt.Errorf("%w %q: bad suit", ErrUnknownCard, string(c))
	}

	// Library ranks run 1..13 with the ace low.
	var r poker.Rank
	switch strings.ToUpper(rankPart) {
	case "A":
		r = 1
	case "K":
		r = 13
	case "Q":
		r = 12
	case "J":
		r = 11
	case "T", "10":
		r = 10
	default:
		if len(rankPart) != 1 || rankPart[0] < '2' || rankPart[0] > '9' {
			return 0, 0, fmt.Errorf("%w %q: bad rank", ErrUnknownCard, string(c))
		}
		r = poker.Rank(rankPart[0] - '0')
	}
	return r, s, nil
}

func rankLabel(r poker.Rank) string {
	switch r {
	case 1:
		return "A"
	case 13:
		return "K"
	case 12:
		return "Q"
	case 11:
		return "J"
	case 10:
		return "T"
	default:
		return fmt.Sprint(int(r))
	}
}
