package main

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/feltworks/feltpoker/domain/poker"
)

func actionPanel(e poker.Event, view poker.View) pterm.Panel {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	name := seatName(view, int(e.Seat))
	var actionString string
	switch e.Action {
	case poker.Bet:
		actionString = pterm.Sprintfln("%s bet %d", name, e.Amount)
	case poker.Raise:
		actionString = pterm.Sprintfln("%s raised to %d", name, e.Amount)
	case poker.Call:
		actionString = pterm.Sprintfln("%s called %d", name, e.Amount)
	case poker.AllIn:
		actionString = pterm.Sprintfln("%s is all in for %d", name, e.Amount)
	case poker.Discard:
		actionString = pterm.Sprintfln("%s drew %d", name, maskBits(e.Mask))
	default:
		actionString = pterm.Sprintfln("%s performed action: %s", name, e.Action)
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|LAST ACTION|")).WithTitleTopCenter().Sprint(actionString)}
}

func awardPanel(awards []poker.Event, view poker.View, describe func(seat int) string) pterm.Panel {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	infoString := ""
	for _, e := range awards {
		for i, seat := range e.Seats {
			name := pterm.LightCyan(seatName(view, int(seat)))
			if desc := describe(int(seat)); desc != "" {
				infoString += pterm.Sprintfln("%s won %d with %s", name, e.Amounts[i], desc)
			} else {
				infoString += pterm.Sprintfln("%s won %d taking down the pot", name, e.Amounts[i])
			}
		}
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().Sprint(infoString)}
}

func revealPanel(seats []poker.SeatState) pterm.Panel {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	infoString := ""
	for _, s := range seats {
		if s.Status != poker.StatusActive && s.Status != poker.StatusAllIn {
			continue
		}
		parts := make([]string, len(s.Hole))
		for i, c := range s.Hole {
			parts[i] = c.String()
		}
		infoString += pterm.Sprintfln("%s: %s", pterm.LightCyan(s.Name), strings.Join(parts, " - "))
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|CARDS|")).WithTitleTopCenter().Sprint(infoString)}
}

func printState(view poker.View, additionalPanel ...pterm.Panel) {
	var panels []pterm.Panel
	var dashboard []pterm.Panel
	for _, sv := range view.Seats {
		if sv.Status == poker.StatusSittingOut || sv.Status == poker.StatusEmpty {
			continue
		}
		if sv.Seat != view.Viewer {
			panels = append(panels, pterm.Panel{Data: printSeatInfo(sv, view, false)})
		} else {
			dashboard = append(dashboard, pterm.Panel{Data: printSeatInfo(sv, view, true)})
		}
	}
	board := pterm.Panel{Data: printBoardInfo(view)}
	dashboard = append(dashboard, additionalPanel...)

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		panels,
		{board},
		dashboard,
	}).Render()
}

func printSeatInfo(sv poker.SeatView, view poker.View, main bool) string {
	hpadding := 4
	if main {
		hpadding = 10
	}
	pbox := pterm.DefaultBox.WithLeftPadding(hpadding).WithRightPadding(hpadding).WithTopPadding(1).WithBottomPadding(1)
	var status string
	switch sv.Status {
	case poker.StatusFolded:
		status = pterm.LightRed("Folded")
	case poker.StatusAllIn:
		status = pterm.LightMagenta("All In")
	default:
		status = pterm.LightGreen("Active")
	}
	title := sv.Name
	if sv.Seat == view.Button {
		title += " " + pterm.LightYellow("(D)")
	}
	if sv.Seat == view.ActionOn {
		title = pterm.LightCyan("> ") + title
	}
	hand := pterm.BgGreen.Sprint(holeString(sv))
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf("%s\nCurrent Bet: %d\nStack: %d\n%s\n", status, sv.StreetBet, sv.Stack, hand)
}

func holeString(sv poker.SeatView) string {
	if len(sv.Hole) > 0 {
		parts := make([]string, len(sv.Hole))
		for i, c := range sv.Hole {
			parts[i] = c.String()
		}
		return strings.Join(parts, " - ")
	}
	return strings.TrimSuffix(strings.Repeat(poker.FaceDown+" - ", sv.HoleCount), " - ")
}

func printBoardInfo(view poker.View) string {
	board := ""
	for _, c := range view.Community {
		board += c.String() + " - "
	}
	board += " Pot: " + strconv.FormatUint(view.PotTotal, 10) + " | "
	return pterm.BgGreen.Sprint("\n" + board + view.StreetName + "\n")
}

func seatName(view poker.View, seat int) string {
	if seat >= 0 && seat < len(view.Seats) {
		return view.Seats[seat].Name
	}
	return "seat-" + strconv.Itoa(seat)
}

func maskBits(mask uint32) int {
	n := 0
	for ; mask != 0; mask &= mask - 1 {
		n++
	}
	return n
}
