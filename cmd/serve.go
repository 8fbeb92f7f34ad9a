package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/api"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/config"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/mcp"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Example: `
# Listen on the configured HOST:PORT (default 0.0.0.0:8001)
ai-service serve

# Keep patterns in SQLite instead of patterns.json
STORE_BACKEND=sqlite ai-service serve
`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, log)
}

// serve runs until ctx is cancelled or the listener fails.
func serve(ctx context.Context, cfg *config.Config, log *utils.Logger) error {
	store, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	model, err := services.NewAnswerModel(ctx, cfg, log)
	if err != nil {
		return err
	}
	predictor := services.NewPredictor(model, cfg.AITimeout, log)
	answers := services.NewAnswerService(store.patterns, predictor, cfg.PatternMemoryConfidence, cfg.SaveConfidenceThreshold, log)

	routerCfg := api.RouterConfig{
		Predict:  api.NewPredictHandler(answers, log),
		Patterns: api.NewPatternHandler(store.patterns, log),
		UserData: api.NewUserDataHandler(store.profiles, log),
		Logger:   log,
	}
	if cfg.RateLimitEnabled {
		routerCfg.RateLimiter = api.NewRateLimiter(ctx, cfg.RateLimitPerIP, cfg.RateLimitBurst, log)
	}
	if cfg.MCPEnabled {
		routerCfg.MCP = mcp.NewMCPServer(answers, store.patterns, api.ServiceVersion).HTTPHandler()
	}

	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "mcp", cfg.MCPEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
