package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/feltworks/feltpoker/domain/poker"
)

// humanController resolves intents at the keyboard with pterm prompts. It
// only offers actions the machine reported legal, so a confirmed selection
// is expected to apply cleanly.
type humanController struct{}

func (humanController) NextIntent(view poker.View, legal []poker.LegalAction) (poker.Intent, error) {
	byLabel := map[string]poker.LegalAction{}
	var options []string
	for _, la := range legal {
		label := actionLabel(la)
		byLabel[label] = la
		options = append(options, label)
	}

	for {
		selected, err := pterm.DefaultInteractiveSelect.
			WithDefaultText("Select your next action").
			WithOptions(options).
			Show()
		if err != nil {
			return poker.Intent{}, err
		}
		la := byLabel[selected]
		intent := poker.Intent{Kind: la.Kind}

		switch la.Kind {
		case poker.Bet, poker.Raise:
			amount, ok := promptAmount(la)
			if !ok {
				continue
			}
			intent.Amount = amount
		case poker.Call:
			intent.Amount = la.Min
		case poker.Discard:
			mask, ok := promptDiscards(view)
			if !ok {
				continue
			}
			intent.Amount = uint64(mask)
		}

		confirm, _ := pterm.DefaultInteractiveConfirm.
			WithDefaultText(fmt.Sprintf("Confirm to %s?", selected)).
			WithDefaultValue(true).
			Show()
		if confirm {
			return intent, nil
		}
		pterm.Info.Println("Action cancelled.")
	}
}

func actionLabel(la poker.LegalAction) string {
	switch la.Kind {
	case poker.Call:
		return fmt.Sprintf("Call %d", la.Min)
	case poker.Bet:
		return fmt.Sprintf("Bet (%d-%d)", la.Min, la.Max)
	case poker.Raise:
		return fmt.Sprintf("Raise to (%d-%d)", la.Min, la.Max)
	case poker.AllIn:
		return fmt.Sprintf("All In %d", la.Min)
	case poker.Fold:
		return "Fold"
	case poker.Check:
		return "Check"
	case poker.StandPat:
		return "Stand Pat"
	case poker.Discard:
		return "Draw Cards"
	}
	return la.Kind.String()
}

func promptAmount(la poker.LegalAction) (uint64, bool) {
	text, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText(fmt.Sprintf("Enter the amount (%d-%d)", la.Min, la.Max)).
		Show()
	amount, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil || amount < la.Min || amount > la.Max {
		pterm.Error.Printfln("Amount must be between %d and %d", la.Min, la.Max)
		return 0, false
	}
	return amount, true
}

func promptDiscards(view poker.View) (uint32, bool) {
	hole := view.Seats[view.Viewer].Hole
	options := make([]string, len(hole))
	for i, c := range hole {
		options[i] = fmt.Sprintf("%d: %s", i+1, c)
	}
	picked, _ := pterm.DefaultInteractiveMultiselect.
		WithDefaultText("Pick the cards to throw away").
		WithOptions(options).
		Show()
	if len(picked) == 0 {
		pterm.Error.Println("Pick at least one card, or stand pat instead.")
		return 0, false
	}
	var mask uint32
	for _, sel := range picked {
		for i, opt := range options {
			if sel == opt {
				mask |= 1 << i
			}
		}
	}
	return mask, true
}

// botController adapts a policy to the table loop, echoing each decision so
// the hand reads like a live game.
type botController struct {
	inner poker.Controller
}

func (b botController) NextIntent(view poker.View, legal []poker.LegalAction) (poker.Intent, error) {
	return b.inner.NextIntent(view, legal)
}
