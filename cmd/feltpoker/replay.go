package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/feltworks/feltpoker/domain/poker"
	"github.com/feltworks/feltpoker/ledger"
)

func newReplayCmd() *cobra.Command {
	var (
		auto  bool
		delay time.Duration
		step  int
	)
	cmd := &cobra.Command{
		Use:   "replay <file.phlg>",
		Short: "Step through a recorded hand history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReplay(args[0], auto, delay, step)
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "advance automatically instead of waiting for enter")
	cmd.Flags().DurationVar(&delay, "delay", 400*time.Millisecond, "pause between steps with --auto")
	cmd.Flags().IntVar(&step, "step", -1, "jump to the first state covering at least this many events")
	return cmd
}

func runReplay(path string, auto bool, delay time.Duration, step int) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", poker.ErrNotFound, path)
		}
		return err
	}
	defer f.Close()

	handLog, err := ledger.DecodeLog(f)
	if err != nil {
		return err
	}
	replayer, err := ledger.NewReplayer(handLog)
	if err != nil {
		return err
	}

	config := handLog.Config()
	variant, err := poker.VariantByTag(config.VariantTag)
	if err != nil {
		return err
	}
	pterm.DefaultHeader.Printfln("Hand #%d  %s  %d events  seed %s",
		config.HandID, variant.Name, handLog.Len(), hex.EncodeToString(config.Seed[:8]))

	if step >= 0 {
		h, err := replayer.ReplayTo(step, nil)
		if err != nil {
			return err
		}
		printState(h.View(-1))
		return nil
	}

	presenter := &replayPresenter{auto: auto, delay: delay}
	h, err := replayer.Replay(presenter)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Hand verified: %d events, final stacks %s", handLog.Len(), stackLine(h))
	return nil
}

// replayPresenter renders the table after every event, paced either by a
// timer or by the enter key.
type replayPresenter struct {
	auto  bool
	delay time.Duration
	last  poker.Event
}

func (p *replayPresenter) OnEvent(e poker.Event) {
	p.last = e
}

func (p *replayPresenter) OnSnapshot(view poker.View) {
	if p.last.Kind == poker.EvAction {
		printState(view, actionPanel(p.last, view))
	} else {
		pterm.Info.Printfln("%s", p.last)
		printState(view)
	}
	if p.auto {
		time.Sleep(p.delay)
		return
	}
	pterm.DefaultInteractiveContinue.
		WithDefaultText("Next event").
		WithOptions([]string{"next"}).
		Show()
}

func stackLine(h *poker.Hand) string {
	line := ""
	for _, s := range h.Seats() {
		if s.Status == poker.StatusSittingOut || s.Status == poker.StatusEmpty {
			continue
		}
		if line != "" {
			line += ", "
		}
		line += fmt.Sprintf("%s=%d", s.Name, s.Stack)
	}
	return line
}
