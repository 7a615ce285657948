/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Command healthviz serves and renders the health risk scatter chart.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilhamster/healthviz/chart"
	"github.com/ilhamster/healthviz/config"
	datasource "github.com/ilhamster/healthviz/data_source"
	"github.com/ilhamster/healthviz/logging"
	"github.com/ilhamster/healthviz/render"
	"github.com/ilhamster/healthviz/service"
)

const shutdownTimeout = 5 * time.Second

var (
	configPath string
	addr       string
	dataPath   string

	viewportWidth float64
	xMeasure      string
	yMeasure      string
	format        string
	outputPath    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "healthviz:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "healthviz",
		Short:         "Health risk factors against demographics, as a scatter chart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "CSV file backing the default dataset")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive chart",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Address to listen on")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart as SVG or PNG",
		Args:  cobra.NoArgs,
		RunE:  renderChart,
	}
	renderCmd.Flags().StringVar(&format, "format", render.SVGFormat, "Output format: svg or png")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the chart's records and positions as XLSX",
		Args:  cobra.NoArgs,
		RunE:  exportChart,
	}

	for _, cmd := range []*cobra.Command{renderCmd, exportCmd} {
		cmd.Flags().Float64Var(&viewportWidth, "width", datasource.DefaultViewportWidth, "Viewport width in pixels")
		cmd.Flags().StringVar(&xMeasure, "x", "", "X axis measure (default poverty)")
		cmd.Flags().StringVar(&yMeasure, "y", "", "Y axis measure (default healthcare)")
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	}
	rootCmd.AddCommand(serveCmd, renderCmd, exportCmd)
	return rootCmd
}

// loadConfig loads the configuration, applying command-line overrides, and
// installs the logger it names.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath, ".env")
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataPath = dataPath
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	l := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, l, nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := service.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           svc.Handler(l),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errs := make(chan error, 1)
	go func() {
		l.Info("serving", "addr", cfg.Addr, "data", cfg.DataPath)
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// build builds the chart selected by the command-line flags.
func build(cmd *cobra.Command) (*chart.Chart, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := service.New(cfg)
	if err != nil {
		return nil, err
	}
	c, err := svc.DataSource().Controller(cmd.Context(), datasource.Selection{
		ViewportWidth: viewportWidth,
		X:             xMeasure,
		Y:             yMeasure,
	})
	if err != nil {
		return nil, err
	}
	return c.Chart(), nil
}

// output opens the -o file, or stdout.
func output() (io.WriteCloser, error) {
	if outputPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outputPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeChart(cmd *cobra.Command, write render.WriterFunc) (err error) {
	ch, err := build(cmd)
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
	}()
	return write(w, ch)
}

func renderChart(cmd *cobra.Command, args []string) error {
	switch format {
	case render.SVGFormat:
		return writeChart(cmd, render.SVG)
	case render.PNG:
		return writeChart(cmd, render.WritePlotFunc(render.PNG))
	default:
		return fmt.Errorf("invalid format: %s (must be svg or png)", format)
	}
}

func exportChart(cmd *cobra.Command, args []string) error {
	return writeChart(cmd, render.WriteWorkbook)
}
