package cli

import (
	"context"
	"fmt"

	"github.com/ktech-edu/ktechhub/internal/common"
)

func (a *App) getStatus() string {
	s := a.manager.State()
	switch {
	case s.IsLoading:
		return "(loading)"
	case s.IsAuthenticated:
		return fmt.Sprintf("(%s)", s.UserData.DisplayName())
	default:
		return "(signed out)"
	}
}

// Root restores the previous session, then shows the dashboard or the
// first-run tour and login prompt, then hands over to the REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Loading...")
	if err := a.manager.Resume(ctx); err != nil {
		a.log.Error(ctx, "resume failed", "error", err)
	}

	go a.StartStateWatcher(ctx)

	fmt.Fprintf(a.out, "Welcome to %s (type 'help' for commands)\n", common.AppName)

	if a.isLoggedIn() {
		_ = a.Dashboard(ctx)
	} else {
		if !a.onboardingSeen(ctx) {
			_ = a.Tour(ctx)
		}
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
