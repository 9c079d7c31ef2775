// Command pricecast fetches the daily brent price table, forecasts it and either renders the
// dashboard to a file or serves it over http with a scheduled refresh.
//
//	pricecast [-config pricecast.yaml] [-profile cpu|mem] render [-format html|json] [-out path] [-verbose]
//	pricecast [-config pricecast.yaml] [-profile cpu|mem] serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/config"
	"github.com/aouyang1/go-pricecast/dashboard"
	"github.com/aouyang1/go-pricecast/linearforecast"
	"github.com/aouyang1/go-pricecast/server"
	"github.com/pkg/profile"
)

var ErrUnknownCommand = errors.New("unknown command")

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), "usage: pricecast [flags] render|serve [command flags]\n")
		fs.PrintDefaults()
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("pricecast failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("pricecast", flag.ContinueOnError)
	cfgPath := fs.String("config", "pricecast.yaml", "path to the yaml config, skipped when missing")
	prof := fs.String("profile", "", "write a cpu or mem profile to the working directory")
	fs.Usage = usage(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("profile %q, expected cpu or mem", *prof)
	}

	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdArgs := fs.Args()
	if len(cmdArgs) == 0 {
		fs.Usage()
		return ErrUnknownCommand
	}
	switch cmdArgs[0] {
	case "render":
		return render(ctx, cfg, pipeline, cmdArgs[1:], stdout)
	case "serve":
		return serve(ctx, cfg, pipeline)
	default:
		fs.Usage()
		return fmt.Errorf("%q, %w", cmdArgs[0], ErrUnknownCommand)
	}
}

func newPipeline(cfg *config.Config) (*pricecast.Pipeline, error) {
	src, err := cfg.Source.Fetcher()
	if err != nil {
		return nil, err
	}
	backend, err := linearforecast.NewBackend(cfg.Forecast)
	if err != nil {
		return nil, err
	}
	popt, err := cfg.PipelineOptions()
	if err != nil {
		return nil, err
	}
	return pricecast.New(src, backend, popt)
}

func render(ctx context.Context, cfg *config.Config, p *pricecast.Pipeline, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	out := fs.String("out", "-", "output path, - for stdout")
	format := fs.String("format", "html", "html or json")
	verbose := fs.Bool("verbose", false, "print the fitted model to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "html" && *format != "json" {
		return fmt.Errorf("format %q, expected html or json", *format)
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if *verbose {
		if err := printModel(os.Stderr, res); err != nil {
			return err
		}
	}

	w := stdout
	if *out != "-" {
		file, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	if *format == "json" {
		err = dashboard.WriteJSON(w, res)
	} else {
		err = dashboard.Render(w, res, cfg.Dashboard)
	}
	if err != nil {
		return err
	}
	slog.Info("rendered dashboard", "format", *format, "out", *out)
	return nil
}

func printModel(w io.Writer, res *pricecast.Result) error {
	f, ok := res.Forecast.Model.(*linearforecast.Forecaster)
	if !ok {
		return nil
	}
	m, err := f.Model()
	if err != nil {
		return err
	}
	if res.HoldoutScores != nil {
		fmt.Fprintf(w, "Holdout: samples %d, MAPE %.4f, MSE %.4f\n",
			res.HoldoutScores.Samples, res.HoldoutScores.MAPE, res.HoldoutScores.MSE)
	}
	return m.TablePrint(w, "", "  ")
}

func serve(ctx context.Context, cfg *config.Config, p *pricecast.Pipeline) error {
	srv, err := server.New(p, &server.Options{
		RefreshCron: cfg.Server.RefreshCron,
		RunTimeout:  cfg.Server.RunTimeout,
		Dashboard:   cfg.Dashboard,
	})
	if err != nil {
		return err
	}

	// serve the error status until the first successful run
	if err := srv.Refresh(ctx); err != nil {
		slog.Error("initial refresh failed", "error", err)
	}
	srv.Start()

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return srv.Stop(shutdownCtx)
}
