package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wcatz/widget-layout/internal/config"
	"github.com/wcatz/widget-layout/internal/layout"
	"github.com/wcatz/widget-layout/internal/render"
	"github.com/wcatz/widget-layout/internal/server"
	"github.com/wcatz/widget-layout/internal/session"
	"github.com/wcatz/widget-layout/internal/watcher"
	"github.com/wcatz/widget-layout/web"
)

const defaultPort = 8080

var (
	cfgFile     string
	verbose     bool
	servePort   int
	seed        bool
	watch       bool
	width       float64
	breakpoint  string
	cellWidth   int
	templateArg string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "widget-layout",
		Short:        "responsive dashboard widget layout engine",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run a layout session behind the HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (default from config, then 8080)")
	serveCmd.Flags().BoolVar(&seed, "seed", false, "place every widget when the template is empty")
	serveCmd.Flags().BoolVar(&watch, "watch", false, "reload the template file when it changes")
	serveCmd.MarkFlagRequired("config")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "draw the layout at a container width in the terminal",
		RunE:  runPreview,
	}
	previewCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	previewCmd.Flags().Float64Var(&width, "width", session.FallbackWidth, "container width in pixels")
	previewCmd.Flags().StringVar(&breakpoint, "breakpoint", "", "preview a breakpoint (xl, lg, md, sm) instead of a width")
	previewCmd.Flags().IntVar(&cellWidth, "cell-width", 0, "characters per grid column")
	previewCmd.Flags().StringVar(&templateArg, "template", "", "template file (default from config)")
	previewCmd.Flags().BoolVar(&seed, "seed", false, "place every widget when the template is empty")
	previewCmd.MarkFlagRequired("config")

	resolveCmd := &cobra.Command{
		Use:   "resolve <width>",
		Short: "print the breakpoint for a container width",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check the config and template files",
		RunE:  runValidate,
	}
	validateCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	validateCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(serveCmd, previewCmd, resolveCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadTemplate reads the template file named by path, if any, and seeds
// an empty result when requested.
func loadTemplate(cfg *config.Config, path string) (layout.Template, *config.TemplateStore, error) {
	tpl := layout.NewTemplate()
	var store *config.TemplateStore
	if path != "" {
		store = config.NewTemplateStore(path)
		loaded, err := store.Load()
		if err != nil {
			return nil, nil, err
		}
		tpl = loaded
	}
	if seed && tpl.Empty() {
		cat := cfg.Catalog()
		tpl = layout.Seed(cat, cat.Types(), nil)
	}
	return tpl, store, nil
}

func sessionOptions(cfg *config.Config, tpl layout.Template, logger *slog.Logger) session.Options {
	return session.Options{
		Catalog:               cfg.Catalog(),
		Template:              tpl,
		LayoutLocked:          cfg.Layout.Locked,
		ShowEmptyState:        cfg.Layout.EmptyStateEnabled(),
		ShowDrawer:            cfg.Layout.DrawerEnabled(),
		InitialDrawerOpen:     cfg.Layout.InitialDrawerOpen,
		DocumentationLink:     cfg.Layout.DocumentationLink,
		DrawerInstructionText: cfg.Layout.DrawerInstructionText,
		Analytics:             session.LogAnalytics(logger),
		Logger:                logger,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tpl, store, err := loadTemplate(cfg, cfg.TemplatePath())
	if err != nil {
		return err
	}

	hub := server.NewHub(logger)
	opts := sessionOptions(cfg, tpl, logger)
	opts.OnTemplateChange = func(t layout.Template) {
		hub.Publish(server.TemplateEvent(t))
		if store == nil {
			return
		}
		if err := store.Save(t); err != nil {
			logger.Error("saving template", "path", store.Path(), "err", err)
		}
	}
	opts.OnActiveWidgetsChange = func(types []string) {
		hub.Publish(server.WidgetTypesEvent(types))
	}
	opts.OnDrawerOpenChange = func(open bool) {
		hub.Publish(server.DrawerEvent(open))
	}
	sess := session.New(opts)
	defer sess.Close()

	srv, err := server.New(server.Options{
		Session:        sess,
		Hub:            hub,
		Static:         web.EmbeddedFS,
		Store:          store,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}
	if port == 0 {
		port = defaultPort
	}
	addr := fmt.Sprintf(":%d", port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	fmt.Printf("widget-layout API: http://localhost%s/api/state\n", addr)
	g.Go(func() error { return srv.Run(ctx, addr) })

	if (watch || cfg.Server.Watch) && store != nil {
		w := watcher.New(store.Path(), reloadTemplate(store, sess, logger), watcher.WithLogger(logger))
		g.Go(func() error { return w.Run(ctx) })
	}

	return g.Wait()
}

// reloadTemplate returns the watcher callback that hands outside edits of
// the template file to the session. The store's own saves are skipped.
func reloadTemplate(store *config.TemplateStore, sess *session.Controller, logger *slog.Logger) func() {
	return func() {
		t, changed, err := store.Reload()
		if err != nil {
			logger.Warn("reloading template", "path", store.Path(), "err", err)
			return
		}
		if !changed {
			logger.Debug("template file unchanged", "path", store.Path())
			return
		}
		if err := sess.SetTemplate(t); err != nil {
			logger.Debug("template reload dropped", "err", err)
		}
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := templateArg
	if path == "" {
		path = cfg.TemplatePath()
	}
	tpl, _, err := loadTemplate(cfg, path)
	if err != nil {
		return err
	}

	w := width
	if breakpoint != "" {
		bp, err := layout.ParseBreakpoint(breakpoint)
		if err != nil {
			return err
		}
		w = bp.Threshold()
	}

	sess := session.New(sessionOptions(cfg, tpl, logger))
	defer sess.Close()
	if err := sess.Mount(w); err != nil {
		return err
	}
	v, err := sess.Snapshot()
	if err != nil {
		return err
	}
	fmt.Println(render.Preview(v, render.Options{CellWidth: cellWidth}))
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	w, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid width %q: %w", args[0], err)
	}
	bp := layout.Resolve(w)
	fmt.Printf("%s (%d columns)\n", bp, bp.Columns())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Printf("config valid: %d widgets\n", len(cfg.Widgets))

	path := cfg.TemplatePath()
	if path == "" {
		return nil
	}
	tpl, err := config.NewTemplateStore(path).Load()
	if err != nil {
		return err
	}
	cat := cfg.Catalog()
	unknown := 0
	for _, bp := range layout.Breakpoints {
		for _, it := range tpl.Layout(bp) {
			if !cat.Has(it.WidgetType) {
				fmt.Printf("  warning: %s item %s has unknown widget type %q\n", bp, it.ID, it.WidgetType)
				unknown++
			}
		}
		fmt.Printf("  %s: %d items\n", bp, len(tpl.Layout(bp)))
	}
	if unknown > 0 {
		fmt.Printf("template %s: %d items will be hidden\n", path, unknown)
	}
	return nil
}
