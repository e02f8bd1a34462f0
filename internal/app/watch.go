package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/martinsuchenak/advisorctl/internal/dashboard"
	"github.com/martinsuchenak/advisorctl/internal/worker"
)

const clearScreen = "\033[H\033[2J"

// Watch mounts a view that redraws the terminal on every refresh and blocks until ctx is
// cancelled or the process is interrupted.
func Watch[T any](ctx context.Context, a *App, name string, load dashboard.Loader[T], draw func(T) string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := worker.NewPoller()
	poller.Start()
	defer poller.Stop()

	view := dashboard.NewView(poller, name, a.Config.PollInterval, load, func(snapshot T, err error) {
		a.Print(clearScreen)
		if err != nil {
			a.Println("Refresh failed: " + err.Error())
			if hint := Hint(err); hint != "" {
				a.Println(hint)
			}
			return
		}
		a.Println(draw(snapshot))
	})
	if err := view.Mount(); err != nil {
		return err
	}
	defer view.Unmount()

	<-ctx.Done()
	return nil
}
