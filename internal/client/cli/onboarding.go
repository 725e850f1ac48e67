package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ktech-edu/ktechhub/internal/client/kvstore"
)

// keyOnboardingSeen is set once the tour has been finished or skipped.
const keyOnboardingSeen = "onboarding_seen"

type slide struct {
	title       string
	description string
}

var slides = []slide{
	{"QR Attendance", "Take attendance easily using QR codes"},
	{"Excuse Records", "Submit and manage absence excuses digitally"},
	{"Schedule View", "Access your class and exam schedules"},
	{"Academic Calendar", "Stay updated with important dates and events"},
	{"Notifications", "Get instant updates about classes and events"},
}

func (a *App) onboardingSeen(ctx context.Context) bool {
	var seen bool
	err := a.kv.Get(ctx, keyOnboardingSeen, &seen)
	if err != nil && !kvstore.IsAbsent(err) {
		a.log.Warn(ctx, "read onboarding flag failed", "error", err)
	}
	return seen
}

// Tour walks through the feature slides. "n" (or Enter) moves forward, "p"
// back, "s" skips. Finishing or skipping marks the tour as seen.
func (a *App) Tour(ctx context.Context) error {
	i := 0
	for i < len(slides) {
		s := slides[i]
		fmt.Fprintf(a.out, "\n[%d/%d] %s\n  %s\n", i+1, len(slides), s.title, s.description)

		prompt := "(n)ext, (p)revious, (s)kip"
		if i == len(slides)-1 {
			prompt = "Press Enter to Get Started, (p)revious"
		}

		answer, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			break
		}

		switch strings.ToLower(answer) {
		case "p", "prev", "previous":
			if i > 0 {
				i--
			}
		case "s", "skip":
			i = len(slides)
		default:
			i++
		}
	}

	if err := a.kv.Set(ctx, keyOnboardingSeen, true); err != nil {
		a.log.Warn(ctx, "save onboarding flag failed", "error", err)
	}
	return nil
}
