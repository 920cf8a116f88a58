package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/everforgeworks/healing-clicker/internal/api"
	"github.com/everforgeworks/healing-clicker/internal/game"
)

func newServeCmd() *cobra.Command {
	var (
		addr string
		seed int64
		tick time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game loop and serve it over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// 1. Load the balance catalog (fatal on a bad file)
			b, err := loadBalance(opts)
			if err != nil {
				return err
			}

			// 2. Open the save backend and restore the game
			m, cleanup, err := openManager(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			var rng game.Rand
			if seed != 0 {
				rng = game.NewRand(seed)
			}
			session := game.NewSession(b, rng, m)
			report := session.Load(ctx)
			if report.Fresh {
				log.Println("LOAD: no save found, starting a new game")
			}
			if report.DailyBonus {
				log.Println("LOAD: daily login bonus granted")
			}

			// 3. Initialize and start the Real-Time WebSocket Hub
			hub := api.NewHub()
			go hub.Run()
			srv := api.NewServer(session, hub)

			// 4. THE GAME LOOP
			// Ticks at a fixed cadence; dt is the measured wall time between ticks.
			stop := make(chan struct{})
			loopDone := make(chan struct{})
			go func() {
				defer close(loopDone)
				ticker := time.NewTicker(tick)
				defer ticker.Stop()
				last := time.Now()
				for {
					select {
					case <-stop:
						return
					case now := <-ticker.C:
						srv.Tick(now.Sub(last).Seconds())
						last = now
					}
				}
			}()

			// 5. Checkpoint on SIGHUP without restarting
			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)
			go func() {
				for range hup {
					log.Println("SIGNAL: checkpoint save")
					srv.WithSession(func(s *game.Session) { s.Save(ctx) })
				}
			}()

			// 6. Start the Server
			httpSrv := &http.Server{Addr: addr, Handler: api.CORSMiddleware(srv.Routes())}
			errCh := make(chan error, 1)
			go func() {
				log.Printf("HEALING CLICKER: server live on %s", addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			// 7. Shut down on SIGINT/SIGTERM with a final save
			sigCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stopSignals()

			var serveErr error
			select {
			case <-sigCtx.Done():
				log.Println("SIGNAL: shutting down")
			case serveErr = <-errCh:
			}

			close(stop)
			<-loopDone

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)

			srv.WithSession(func(s *game.Session) {
				if s.Save(ctx) {
					log.Println("SAVE: final save written")
				}
			})

			if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				return serveErr
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8081", "listen address")
	f.Int64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.DurationVar(&tick, "tick", 100*time.Millisecond, "game loop tick interval")
	return cmd
}
