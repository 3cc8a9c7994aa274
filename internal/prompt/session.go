package prompt

import (
	"context"
	"errors"
	"strings"
)

// Renderer renders one line of template source. *render.Pass satisfies it,
// so variables written on one line are visible on the next.
type Renderer interface {
	Render(ctx context.Context, content string, data map[string]any) (string, error)
}

const sessionHelp = "Enter template source such as {{ var:color is=\"red\" }}. An empty line ends the session."

// Run prompts for template lines until an empty line or an abort, printing
// each result. Render errors are printed and the session continues.
func Run(ctx context.Context, driver Driver, renderer Renderer, data map[string]any) error {
	for {
		line, err := driver.Input(ctx, InputConfig{Message: "template>", Help: sessionHelp})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}

		out, err := renderer.Render(ctx, line, data)
		if err != nil {
			out = "error: " + err.Error()
		}
		if err := driver.Info(ctx, out); err != nil {
			return err
		}
	}
}
