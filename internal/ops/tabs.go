package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/capture/internal/browser"
	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/errors"
)

// TabsInput contains parameters for the Tabs operation.
type TabsInput struct {
	All     bool   // every tab of every window instead of the active tab
	Browser string // default: cfg.Browser
}

// TabsOutput contains the result of the Tabs operation.
type TabsOutput struct {
	Browser string        `json:"browser"`
	Scope   string        `json:"scope"`
	Tabs    []browser.Tab `json:"tabs"`
}

// Tabs queries the browser without writing anything. A browser that isn't running
// yields an empty list.
func Tabs(ctx context.Context, deps *Deps, cfg *config.Config, input TabsInput) (*TabsOutput, error) {
	name := cfg.Browser
	if strings.TrimSpace(input.Browser) != "" {
		name = input.Browser
	}
	b, err := browser.ParseBrowser(name)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	scope := browser.Active
	if input.All {
		scope = browser.All
	}

	var tabs []browser.Tab
	if deps.Automation != nil {
		tabs = browser.Query(ctx, deps.Automation, b, scope)
	}
	return &TabsOutput{
		Browser: b.String(),
		Scope:   scope.String(),
		Tabs:    nonNil(tabs),
	}, nil
}
