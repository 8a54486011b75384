package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/session"
)

// Run shows sess in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	logger := ctxlog.FromContext(ctx)

	p := tea.NewProgram(New(ctx, sess),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	// Subscribers run with the session locked, so delivery is asynchronous.
	h := sess.Subscribe(func(e session.Event) {
		go p.Send(eventMsg(e))
	})
	defer sess.Unsubscribe(h)

	logger.Debug("Starting terminal view.")
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal view failed: %w", err)
	}
	return nil
}
