package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xvierd/hookscope/internal/adapters/git"
	"github.com/xvierd/hookscope/internal/adapters/process"
	"github.com/xvierd/hookscope/internal/adapters/storage"
	"github.com/xvierd/hookscope/internal/config"
	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/logging"
	"github.com/xvierd/hookscope/internal/ports"
	"github.com/xvierd/hookscope/internal/services"
)

// gitEnv keeps queries away from the index lock and pins git's messages to
// the C locale so stderr is stable.
var gitEnv = []string{"GIT_OPTIONAL_LOCKS=0", "LC_ALL=C"}

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   logging.Logger
	storage  ports.Storage
	detector ports.RepositoryDetector
	repo     *domain.Repository
	repoErr  error
	workDir  string
	repoSvc  *services.RepoService
	hooks    *services.HookService
	query    *services.QueryService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(cmd *cobra.Command) error {
	var err error
	if err := cleanupServices(); err != nil {
		return err
	}
	app = appDeps{}

	// Load configuration
	app.config, err = config.Load(configPath)
	if err != nil {
		if configPath != "" {
			return err
		}
		// If the default config cannot be loaded, use defaults
		app.config = config.DefaultConfig()
	}

	level := app.config.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	app.logger, err = logging.New(cmd.ErrOrStderr(), app.config.Log.Format, level)
	if err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	// Initialize storage
	if app.config.Storage.Audit || dbPath != "" {
		path := dbPath
		if path == "" {
			path = config.GetDBPath(app.config)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		app.storage, err = storage.New(path)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	app.workDir = repoDir
	if app.workDir == "" {
		app.workDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	// Locate the repository; commands that need one report repoErr.
	app.detector = git.NewDetector()
	app.repo, app.repoErr = app.detector.Detect(cmd.Context(), app.workDir)

	hookRoot := app.workDir
	if app.repo != nil {
		hookRoot = app.repo.Root
		engine := git.NewEngine(
			process.NewExecRunner(gitEnv...),
			app.repo,
			git.WithGitBinary(app.config.Git.Binary),
			git.WithTimeout(app.config.Git.Timeout),
			git.WithLogger(app.logger),
		)
		app.repoSvc = services.NewRepoService(engine, app.detector)
	}

	app.hooks = services.NewHookService(
		process.NewExecRunner(),
		app.storage,
		hookRoot,
		services.HookConfig{
			Patterns:       app.config.Patterns,
			DefaultPattern: app.config.DefaultPattern,
			Timeout:        app.config.Hooks.Timeout,
		},
		app.logger,
	)
	if app.repoSvc != nil {
		app.query = services.NewQueryService(app.repoSvc, app.hooks)
	}

	return nil
}

// requireRepo returns the repository service, or why there is none.
func requireRepo() (*services.RepoService, error) {
	if app.repoSvc != nil {
		return app.repoSvc, nil
	}
	if app.repoErr != nil && !errors.Is(app.repoErr, domain.ErrNotRepository) {
		return nil, app.repoErr
	}
	return nil, fmt.Errorf("%s: %w", app.workDir, domain.ErrNotRepository)
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx
}
