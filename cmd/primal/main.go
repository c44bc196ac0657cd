package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"primal/internal/compose"
	"primal/internal/config"
	"primal/internal/export"
	"primal/internal/job"
	"primal/internal/pipeline"
	"primal/internal/primes"
	"primal/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg := config.Default()
	fs := flag.NewFlagSet("primal", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: primal [flags]\n\nExplore the Ulam spiral in the terminal.\n\n")
		fs.PrintDefaults()
	}
	cfg.Bind(fs)
	_ = fs.Parse(args)

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "primal")
		if err != nil {
			return err
		}
		defer f.Close()
		pipeline.SetLogger(slog.Default())
	}

	comp, err := compose.New(compose.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}

	if cfg.Export != "" {
		return exportOnce(comp, cfg)
	}

	pipe := pipeline.New(comp)
	defer pipe.Close()
	_, err = tea.NewProgram(tui.New(cfg, pipe), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

// exportOnce renders cfg without the viewer and writes it to cfg.Export.
func exportOnce(comp *compose.Compositor, cfg config.Config) error {
	rc := cfg.Snapshot()
	if err := rc.Validate(); err != nil {
		return err
	}
	ctx := context.Background()
	set, _ := primes.Sieve(ctx, rc.Bound)
	bm, state, err := comp.Render(ctx, rc, set, nil)
	if err != nil {
		return err
	}
	if state != job.Completed {
		return fmt.Errorf("render %s", state)
	}
	if err := export.SavePNG(bm, cfg.Export); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d, %d primes)\n", cfg.Export, bm.Width(), bm.Height(), set.Len())
	return nil
}
