package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/feltworks/feltpoker/bot"
	"github.com/feltworks/feltpoker/domain/poker"
	"github.com/feltworks/feltpoker/domain/table"
	"github.com/feltworks/feltpoker/ledger"
	"github.com/feltworks/feltpoker/store"
)

type playOptions struct {
	variant string
	players int
	seed    string
	saveDir string
	stack   uint64
	sb      uint64
	bb      uint64
	ante    uint64
	hands   int
	name    string
}

func newPlayCmd() *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive session against bots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.variant, "variant", "holdem", "game variant ("+variantList()+")")
	cmd.Flags().IntVar(&opts.players, "players", 4, "number of seats, bots fill all but yours")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "deterministic session seed (random when empty)")
	cmd.Flags().StringVar(&opts.saveDir, "save-dir", "", "directory for hand histories and session snapshots")
	cmd.Flags().Uint64Var(&opts.stack, "stack", 1000, "starting stack per seat")
	cmd.Flags().Uint64Var(&opts.sb, "sb", 5, "small blind")
	cmd.Flags().Uint64Var(&opts.bb, "bb", 10, "big blind")
	cmd.Flags().Uint64Var(&opts.ante, "ante", 0, "ante per seat")
	cmd.Flags().IntVar(&opts.hands, "hands", 0, "stop after this many hands (0 plays until someone is felted)")
	cmd.Flags().StringVar(&opts.name, "name", "", "your display name")
	return cmd
}

func variantList() string {
	list := ""
	for i, name := range poker.Variants() {
		if i > 0 {
			list += ", "
		}
		list += name
	}
	return list
}

func runPlay(ctx context.Context, opts playOptions) error {
	variant, err := poker.VariantByName(opts.variant)
	if err != nil {
		return err
	}

	renderBanner()

	name := opts.name
	if name == "" {
		name, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your username").WithDefaultValue("hero").Show()
		pterm.Println()
	}
	pterm.Info.Printfln("Your username: %s", name)

	tbl, err := table.New(variant, opts.players, poker.Blinds{Small: opts.sb, Big: opts.bb, Ante: opts.ante})
	if err != nil {
		return err
	}
	if _, err := tbl.Sit(0, name, opts.stack); err != nil {
		return err
	}
	controllers := make([]poker.Controller, opts.players)
	controllers[0] = humanController{}
	for seat := 1; seat < opts.players; seat++ {
		if _, err := tbl.Sit(seat, "bot-"+strconv.Itoa(seat), opts.stack); err != nil {
			return err
		}
		controllers[seat] = botController{inner: &bot.Policy{Aggression: 0.04 * float64(seat)}}
	}

	var fs *store.FileStore
	if opts.saveDir != "" {
		fs, err = store.NewFileStore(opts.saveDir)
		if err != nil {
			return err
		}
	}
	db := openStatsDB(ctx)
	if db != nil {
		defer db.Close()
	}

	base := sessionSeed(opts.seed)
	for {
		h, handLog, err := tbl.StartHand(handSeed(base, tbl.HandsDealt()+1))
		if err != nil {
			return err
		}
		pterm.DefaultHeader.Printfln("Hand #%d  %s  blinds %d/%d", handLog.Config().HandID, variant.Name, opts.sb, opts.bb)

		if err := playHand(h, controllers, 0); err != nil {
			return err
		}
		finished, err := tbl.FinishHand()
		if err != nil {
			return err
		}
		renderHandEnd(h, finished, variant)
		persistHand(ctx, tbl, finished, fs, db)

		if opts.hands > 0 && int(tbl.HandsDealt()) >= opts.hands {
			break
		}
		if funded(tbl) < 2 {
			pterm.Info.Println("Only one stack left. Session over.")
			break
		}
		again, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Deal the next hand?").WithDefaultValue(true).Show()
		if !again {
			break
		}
	}

	renderStandings(tbl.Snapshot())
	return nil
}

// playHand runs the hand's action loop, blocking on each seat's controller.
// Illegal input from the human seat re-prompts; anything else aborts.
func playHand(h *poker.Hand, controllers []poker.Controller, humanSeat int) error {
	for !h.Finished() {
		seat := h.ActionOn()
		if seat < 0 {
			return fmt.Errorf("%w: no actor on a live hand", poker.ErrCorrupt)
		}
		legal, err := h.LegalActions(seat)
		if err != nil {
			return err
		}
		view := h.View(seat)
		if seat == humanSeat {
			printState(view)
		}

		intent, err := controllers[seat].NextIntent(view, legal)
		switch {
		case errors.Is(err, poker.ErrTimeout):
			if err := h.ApplyTimeout(seat); err != nil {
				return err
			}
			continue
		case err != nil:
			return err
		}

		if err := h.Apply(seat, intent.Kind, intent.Amount); err != nil {
			if seat == humanSeat && (errors.Is(err, poker.ErrIllegalAction) || errors.Is(err, poker.ErrInsufficientFunds)) {
				pterm.Error.Printfln("Invalid action: %s", err)
				continue
			}
			return err
		}
		if humanSeat >= 0 && seat != humanSeat {
			renderBotAction(h, seat)
		}
	}
	return nil
}

// renderBotAction echoes a bot's last action with a short pause so the
// table reads at a human pace.
func renderBotAction(h *poker.Hand, seat int) {
	view := h.View(-1)
	time.Sleep(150 * time.Millisecond)
	pterm.Info.Printfln("%s", lastActionLine(h, view, seat))
}

func lastActionLine(h *poker.Hand, view poker.View, seat int) string {
	name := seatName(view, seat)
	sv := view.Seats[seat]
	switch {
	case sv.Status == poker.StatusFolded:
		return name + " folds"
	case sv.Status == poker.StatusAllIn:
		return name + " is all in"
	default:
		return fmt.Sprintf("%s acts (street bet %d)", name, sv.StreetBet)
	}
}

// renderHandEnd shows the board, every live hand and the award breakdown.
func renderHandEnd(h *poker.Hand, handLog *ledger.Log, variant *poker.Variant) {
	events := handLog.Events()
	var awards []poker.Event
	sawShowdown := false
	for _, e := range events {
		switch e.Kind {
		case poker.EvAward:
			awards = append(awards, e)
		case poker.EvShowdown:
			sawShowdown = true
		}
	}

	view := h.View(-1)
	seats := h.Seats()
	describe := func(seat int) string {
		if !sawShowdown || seat >= len(seats) || seats[seat].Status == poker.StatusFolded {
			return ""
		}
		cards := append(append([]poker.Card(nil), seats[seat].Hole...), view.Community...)
		hr, err := variant.Evaluate(cards)
		if err != nil {
			return ""
		}
		return hr.Describe()
	}
	panels := []pterm.Panel{awardPanel(awards, view, describe)}
	if sawShowdown {
		panels = append([]pterm.Panel{revealPanel(seats)}, panels...)
	}
	printState(view, panels...)
}

// persistHand writes the hand history and session snapshot. Persistence is
// best effort: a full disk or unreachable database does not stop the game.
func persistHand(ctx context.Context, tbl *table.Table, handLog *ledger.Log, fs *store.FileStore, db *store.DB) {
	config := handLog.Config()

	var history bytes.Buffer
	if err := ledger.EncodeLog(&history, handLog); err != nil {
		logger.Warn("encoding hand history failed", "hand", config.HandID, "err", err.Error())
		return
	}

	if fs != nil {
		key := fmt.Sprintf("hand-%06d.phlg", config.HandID)
		if err := fs.Put(key, history.Bytes()); err != nil {
			logger.Warn("saving hand history failed", "key", key, "err", err.Error())
		}
		var session bytes.Buffer
		opts := table.SaveOptions{IncludeHandHistory: true, Compress: true}
		if err := table.SaveSession(&session, tbl, opts); err == nil {
			if err := fs.Put("session.pgst", session.Bytes()); err != nil {
				logger.Warn("saving session failed", "err", err.Error())
			}
		}
		var stats bytes.Buffer
		if err := table.SaveStats(&stats, tbl.Snapshot()); err == nil {
			if err := fs.Put("stats.ppst", stats.Bytes()); err != nil {
				logger.Warn("saving stats failed", "err", err.Error())
			}
		}
	}

	if db != nil {
		if err := db.SaveHandHistory(ctx, config.HandID, config.VariantTag, history.Bytes()); err != nil {
			logger.Warn("database hand history failed", "err", err.Error())
		}
		for _, entry := range tbl.Snapshot() {
			if err := db.UpsertPlayerStats(ctx, entry.ID, entry.Name, entry.Stats); err != nil {
				logger.Warn("database stats upsert failed", "player", entry.Name, "err", err.Error())
			}
		}
	}
}

// openStatsDB connects to the optional stats database. Absent configuration
// or a failed connection just means no database.
func openStatsDB(ctx context.Context) *store.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	spinner, _ := pterm.DefaultSpinner.Start("Connecting to the stats database")
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = store.Migrate(ctx, db)
	}
	if err != nil {
		spinner.Fail()
		logger.Warn("stats database unavailable", "err", err.Error())
		return nil
	}
	spinner.Success()
	return db
}

func funded(tbl *table.Table) int {
	n := 0
	for _, p := range tbl.Players() {
		if p != nil && p.Stack > 0 {
			n++
		}
	}
	return n
}

func renderStandings(entries []table.StatsEntry) {
	data := pterm.TableData{{"Player", "Hands", "Won", "Winnings", "VPIP", "PFR", "Peak", "Sessions"}}
	for _, e := range entries {
		data = append(data, []string{
			e.Name,
			strconv.FormatUint(uint64(e.Stats.HandsPlayed), 10),
			strconv.FormatUint(uint64(e.Stats.HandsWon), 10),
			strconv.FormatInt(e.Stats.Winnings, 10),
			fmt.Sprintf("%.0f%%", 100*e.Stats.VPIP()),
			fmt.Sprintf("%.0f%%", 100*e.Stats.PFR()),
			strconv.FormatUint(e.Stats.PeakChips, 10),
			strconv.FormatUint(uint64(e.Stats.Sessions), 10),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// sessionSeed derives the 32-byte session seed: hashed from the flag when
// given, random otherwise.
func sessionSeed(text string) poker.Seed {
	var s poker.Seed
	if text == "" {
		rand.Read(s[:])
		return s
	}
	return sha256.Sum256([]byte(text))
}

// handSeed derives hand n's deck seed from the session seed, so a session
// seed pins every shuffle of the session.
func handSeed(base poker.Seed, n uint64) poker.Seed {
	var block [40]byte
	copy(block[:32], base[:])
	binary.LittleEndian.PutUint64(block[32:], n)
	return sha256.Sum256(block[:])
}
