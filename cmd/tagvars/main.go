package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-tagvars/internal/config"
	"github.com/goliatone/go-tagvars/internal/prompt"
	"github.com/goliatone/go-tagvars/pkg/datasource"
	"github.com/goliatone/go-tagvars/pkg/render"
	"github.com/goliatone/go-tagvars/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tagvars/pkg/varplugin"
)

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	var data stringList
	cfg := env
	input := flag.String("input", "-", "template file (stdin when -)")
	output := flag.String("output", "", "output file (stdout if empty)")
	interactive := flag.Bool("interactive", false, "prompt for template lines in a single pass")
	flag.StringVar(&cfg.Sanitize, "sanitize", env.Sanitize, "output sanitizer: none, ugc or strict")
	flag.StringVar(&cfg.IncludeDir, "include-dir", env.IncludeDir, "directory {% include %} resolves from")
	flag.BoolVar(&cfg.Debug, "debug", env.Debug, "log tag dispatch to stderr")
	flag.BoolVar(&cfg.TrimOutput, "trim", env.TrimOutput, "trim surrounding whitespace from the output")
	flag.Var(&data, "data", "context file (.json, .yaml, .yml, .hcl); repeatable")
	flag.Parse()

	if len(data) == 0 {
		data = env.Data
	}

	ctx := context.Background()

	values, err := loadContext(data)
	if err != nil {
		log.Fatalf("Failed to load context: %v", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		log.Fatalf("Failed to configure renderer: %v", err)
	}

	if *interactive {
		pass := engine.BeginPass(ctx)
		defer pass.End()
		if err := prompt.Run(ctx, prompt.NewSurveyDriver(os.Stdout), pass, values); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
		return
	}

	src, err := readInput(*input)
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}

	out, err := engine.Render(ctx, src, values)
	if err != nil {
		log.Fatalf("Failed to render template: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Output written to %s\n", *output)
		return
	}
	fmt.Print(out)
}

// templateFuncs are callable from every template, as in `{{ env("USER") }}`.
var templateFuncs = map[string]any{
	"env": os.Getenv,
}

func newEngine(cfg config.Config) (*render.Engine, error) {
	sanitizer, err := render.SanitizerByName(cfg.Sanitize)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	renderer, err := gotemplate.New(
		gotemplate.WithBaseDir(cfg.IncludeDir),
		gotemplate.WithTemplateFunc(templateFuncs),
	)
	if err != nil {
		return nil, err
	}
	return render.New(
		render.WithTemplateRenderer(renderer),
		render.WithPlugins(varplugin.New(varplugin.WithLogger(logger))),
		render.WithLogger(logger),
		render.WithSanitizer(sanitizer),
		render.WithTrimOutput(cfg.TrimOutput),
	)
}

func loadContext(paths []string) (map[string]any, error) {
	values := map[string]any{}
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		loaded, err := datasource.LoadFile(path)
		if err != nil {
			return nil, err
		}
		datasource.Merge(values, loaded)
	}
	return values, nil
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		return string(raw), err
	}
	raw, err := os.ReadFile(path)
	return string(raw), err
}
