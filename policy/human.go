package policy

// Action is a logical control a player can hold down.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionJump
	ActionShoot
	ActionMelee
	actionCount
)

var actionNames = [...]string{"left", "right", "jump", "shoot", "melee"}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Actions lists every logical action in precedence order.
func Actions() []Action {
	return []Action{ActionLeft, ActionRight, ActionJump, ActionShoot, ActionMelee}
}

// ParseAction resolves an action name.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), true
		}
	}
	return 0, false
}

// Buttons is the per-frame pressed state of each logical action.
type Buttons [actionCount]bool

// Pressed reports whether a is held.
func (b Buttons) Pressed(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return b[a]
}

// With returns a copy of b with a set to down.
func (b Buttons) With(a Action, down bool) Buttons {
	if a >= 0 && a < actionCount {
		b[a] = down
	}
	return b
}

// ButtonReceiver is implemented by policies that read player input.
type ButtonReceiver interface {
	Press(b Buttons)
}

// Human turns the latest button snapshot into an intent. Left takes
// precedence when both directions are held.
type Human struct {
	buttons Buttons
}

// Press stores the snapshot used by the next Decide.
func (h *Human) Press(b Buttons) {
	h.buttons = b
}

func (h *Human) Decide(self, opponent View) Intent {
	in := Intent{
		Jump:  h.buttons.Pressed(ActionJump),
		Shoot: h.buttons.Pressed(ActionShoot),
		Melee: h.buttons.Pressed(ActionMelee),
	}
	switch {
	case h.buttons.Pressed(ActionLeft):
		in.Move = MoveLeft
	case h.buttons.Pressed(ActionRight):
		in.Move = MoveRight
	}
	return in
}
