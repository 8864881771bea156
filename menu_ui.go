package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/brawler/policy"
)

// controller is one entry of the per-side controller choice.
type controller struct {
	Label  string
	Kind   policy.Kind
	Remote bool
}

func controllers(networked bool) []controller {
	cs := []controller{
		{Label: "Human", Kind: policy.KindHuman},
		{Label: "Aggressive bot", Kind: policy.KindAggressive},
		{Label: "Defensive bot", Kind: policy.KindDefensive},
		{Label: "Scripted bot", Kind: policy.KindScripted},
	}
	if networked {
		cs = append(cs, controller{Label: "Network peer", Kind: policy.KindHuman, Remote: true})
	}
	return cs
}

// selection is what the menu has chosen for both sides.
type selection struct {
	characters  []string
	controllers []controller
	char        [2]int
	ctrl        [2]int
}

func (s *selection) character(side int) string {
	return s.characters[s.char[side]%len(s.characters)]
}

func (s *selection) controller(side int) controller {
	return s.controllers[s.ctrl[side]%len(s.controllers)]
}

func setLabel(b *widget.Button, label string) {
	if text := b.Text(); text != nil {
		text.Label = label
	}
}

// NewMenuUI builds the character and controller select screen.
func NewMenuUI(g *Game) *ebitenui.UI {
	sel := g.sel
	panel := newPanel(g.width/3, g.height/2)
	panel.AddChild(newLabel("Brawler"))

	for side := range 2 {
		panel.AddChild(newLabel(fmt.Sprintf("Player %d", side+1)))

		var charBtn, ctrlBtn *widget.Button
		charBtn = newButton(sel.character(side), func() {
			sel.char[side] = (sel.char[side] + 1) % len(sel.characters)
			setLabel(charBtn, sel.character(side))
		})
		ctrlBtn = newButton(sel.controller(side).Label, func() {
			sel.ctrl[side] = (sel.ctrl[side] + 1) % len(sel.controllers)
			setLabel(ctrlBtn, sel.controller(side).Label)
		})
		panel.AddChild(charBtn)
		panel.AddChild(ctrlBtn)
	}

	panel.AddChild(newButton("Fight", g.startMatch))
	panel.AddChild(newButton("Quit", func() { g.quit = true }))
	if g.status != "" {
		panel.AddChild(newLabel(g.status))
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}
