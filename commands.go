package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milk9111/ropesim/server"
	"github.com/milk9111/ropesim/term"
	"github.com/milk9111/ropesim/trace"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open a window and drag the rope with the mouse",
		RunE:  runPlay,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	game, err := NewGame(a.cfg, a.cfg.Prefab, a.cfg.Anchor.Script, a.logger)
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
	ebiten.SetWindowTitle(a.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(game)
}

func termCmd() *cobra.Command {
	var scale float64
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Draw the rope in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			_, sim, source, err := a.loadRope()
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("term: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("term: %w", err)
			}
			defer screen.Fini()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			v := term.NewViewer(screen, sim, source, a.cfg.TickRate, scale, a.logger)
			v.Renderer().Center = sim.Anchor()
			v.Renderer().Center.Y -= float64(sim.Len()) * sim.Config().RestLength / 2
			return v.Run(ctx)
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 2, "Terminal rows per world unit")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Step the rope on a ticker and stream frames over HTTP and websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			_, sim, source, err := a.loadRope()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := server.Options{TickRate: a.cfg.TickRate, Source: source, Logger: a.logger}
			if a.cfg.Redis.Addr != "" {
				client, err := server.ConnectRedis(ctx, a.cfg.Redis.Addr)
				if err != nil {
					return err
				}
				pub := server.NewRedisPublisher(client, a.cfg.Redis.Channel)
				defer pub.Close()
				opts.Publisher = pub
				a.logger.Info("publishing frames to redis",
					zap.String("addr", a.cfg.Redis.Addr), zap.String("channel", a.cfg.Redis.Channel))
			}

			srv, err := server.New(sim, opts)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}
}

func recordCmd() *cobra.Command {
	var run string
	var ticks int
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Run the rope headless for a number of ticks and store every frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			frames, err := a.record(ticks)
			if err != nil {
				return err
			}

			store, err := trace.Open(a.cfg.Trace.Path, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(run); err != nil {
				return err
			}
			if err := store.PutAll(run, frames); err != nil {
				return err
			}
			a.logger.Info("run recorded",
				zap.String("run", run), zap.Int("ticks", len(frames)), zap.String("path", a.cfg.Trace.Path))
			return nil
		},
	}
	cmd.Flags().StringVar(&run, "run", "default", "Run name")
	cmd.Flags().IntVar(&ticks, "ticks", 500, "Number of physics ticks to record")
	return cmd
}

func (a *app) record(ticks int) ([]trace.Frame, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("record: ticks %d must be positive", ticks)
	}
	_, sim, source, err := a.loadRope()
	if err != nil {
		return nil, err
	}
	return trace.Record(sim, source, ticks, a.cfg.Step())
}

var errDiverged = errors.New("runs diverge")

func verifyCmd() *cobra.Command {
	var run, against string
	var tol float64
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare a stored run with another run or with a fresh recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			store, err := trace.Open(a.cfg.Trace.Path, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			base, err := store.Frames(run)
			if err != nil {
				return err
			}
			if len(base) == 0 {
				return fmt.Errorf("verify: run %q has no frames", run)
			}

			var other []trace.Frame
			if against != "" {
				other, err = store.Frames(against)
			} else {
				// replay with the current prefab and config
				other, err = a.record(len(base))
			}
			if err != nil {
				return err
			}

			if tick, diverged := trace.Compare(base, other, tol); diverged {
				return fmt.Errorf("%w at tick %d", errDiverged, tick)
			}
			a.logger.Info("runs match", zap.String("run", run), zap.String("against", against), zap.Int("ticks", len(base)))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ticks identical\n", run, len(base))
			return nil
		},
	}
	cmd.Flags().StringVar(&run, "run", "default", "Stored run to check")
	cmd.Flags().StringVar(&against, "against", "", "Stored run to compare with (default: record a fresh run)")
	cmd.Flags().Float64Var(&tol, "tol", 0, "Allowed absolute difference; 0 demands identical bits")
	return cmd
}
