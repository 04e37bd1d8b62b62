package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/salesdesk/internal/client/client"
	"github.com/dmitrijs2005/salesdesk/internal/client/services"
)

type fetchFunc func(ctx context.Context, projectID string) (json.RawMessage, error)

// views maps a REPL command to the project-scoped call that backs it.
func (a *App) views() map[string]fetchFunc {
	return map[string]fetchFunc{
		"orders": func(ctx context.Context, id string) (json.RawMessage, error) {
			return a.res.Orders.List(ctx, id, nil)
		},
		"messages": func(ctx context.Context, id string) (json.RawMessage, error) {
			return a.res.Messages.List(ctx, id, nil)
		},
		"integrations": a.res.Integrations.List,
		"subscription": a.res.Subscriptions.Current,
		"usage":        a.res.Subscriptions.Usage,
		"products":     a.res.Products.List,
		"reports": func(ctx context.Context, id string) (json.RawMessage, error) {
			return a.res.Reports.Get(ctx, id, "")
		},
		"training": a.res.BotTraining.List,
	}
}

// Show fetches and prints one project-scoped view.
func (a *App) Show(ctx context.Context, view string) error {
	fetch, ok := a.views()[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}

	body, err := services.ScopedFetch(ctx, a.scope, view, fetch)
	if err != nil {
		a.reportScoped(ctx, err)
		return nil
	}
	a.printJSON(body)
	return nil
}

// Ask sends a message to the project assistant, keeping the conversation
// for as long as the project stays the same.
func (a *App) Ask(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		var err error
		text, err = GetMultiline(a.reader, "Ask the assistant", a.out)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}
	}

	if pid := a.currentProjectID(); pid != a.historyProject {
		a.history = nil
		a.historyProject = pid
	}
	history := slices.Clone(a.history)

	body, err := services.ScopedFetch(ctx, a.scope, "assistant", func(ctx context.Context, id string) (json.RawMessage, error) {
		return a.res.Assistant.Chat(ctx, id, text, history)
	})
	if err != nil {
		a.reportScoped(ctx, err)
		return nil
	}

	var reply struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &reply); err != nil || reply.Response == "" {
		a.printJSON(body)
		return nil
	}
	a.history = append(a.history,
		client.ChatMessage{Role: "user", Content: text},
		client.ChatMessage{Role: "assistant", Content: reply.Response},
	)
	fmt.Fprintln(a.out, reply.Response)
	return nil
}

func (a *App) reportScoped(ctx context.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStaleResult):
		a.log.Debug(ctx, "discarded stale result")
	case errors.Is(err, services.ErrNoProject):
		fmt.Fprintln(a.out, "No project selected. Type 'projects' and 'use <n>' to pick one.")
	case errors.Is(err, services.ErrProjectGone):
		fmt.Fprintln(a.out, "The current project is no longer available. Type 'projects' to pick another one.")
	case errors.Is(err, client.ErrAuthenticationExpired):
		// Already announced by the session store.
	default:
		fmt.Fprintln(a.out, "! "+client.UserMessage(err))
	}
}

func (a *App) printJSON(body json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		fmt.Fprintln(a.out, string(body))
		return
	}
	fmt.Fprintln(a.out, buf.String())
}
