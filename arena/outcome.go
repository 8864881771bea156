package arena

import "github.com/milk9111/brawler/ecs/component"

// Winner is the result of a round or a match.
type Winner int

const (
	WinnerDraw Winner = iota
	WinnerLeft
	WinnerRight
)

func (w Winner) String() string {
	switch w {
	case WinnerLeft:
		return "left"
	case WinnerRight:
		return "right"
	default:
		return "draw"
	}
}

// Side returns the winning side; ok is false for a draw.
func (w Winner) Side() (component.Side, bool) {
	switch w {
	case WinnerLeft:
		return component.SideLeft, true
	case WinnerRight:
		return component.SideRight, true
	default:
		return 0, false
	}
}

func winnerOf(side component.Side) Winner {
	if side == component.SideRight {
		return WinnerRight
	}
	return WinnerLeft
}

// Reason says how a round ended.
type Reason int

const (
	ReasonKO Reason = iota + 1
	ReasonDoubleKO
	ReasonTimeUp
)

func (r Reason) String() string {
	switch r {
	case ReasonKO:
		return "ko"
	case ReasonDoubleKO:
		return "double_ko"
	case ReasonTimeUp:
		return "time_up"
	default:
		return "none"
	}
}

// Outcome is the verdict of one round.
type Outcome struct {
	Round       int
	Winner      Winner
	Reason      Reason
	LeftHealth  int
	RightHealth int
}

// decide applies the round-end rules to the current health values. ok is
// false while the round should continue.
func decide(left, right int, timeUp bool) (Outcome, bool) {
	o := Outcome{LeftHealth: left, RightHealth: right}
	switch {
	case left <= 0 && right <= 0:
		o.Winner, o.Reason = WinnerDraw, ReasonDoubleKO
	case left <= 0:
		o.Winner, o.Reason = WinnerRight, ReasonKO
	case right <= 0:
		o.Winner, o.Reason = WinnerLeft, ReasonKO
	case timeUp:
		o.Reason = ReasonTimeUp
		switch {
		case left > right:
			o.Winner = WinnerLeft
		case right > left:
			o.Winner = WinnerRight
		default:
			o.Winner = WinnerDraw
		}
	default:
		return Outcome{}, false
	}
	return o, true
}
