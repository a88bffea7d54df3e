package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-archiver/internal/config"
	"github.com/naka-gawa/github-archiver/internal/credential"
	"github.com/naka-gawa/github-archiver/internal/domain"
	"github.com/naka-gawa/github-archiver/internal/gateway"
	"github.com/naka-gawa/github-archiver/internal/platform"
	"github.com/naka-gawa/github-archiver/internal/usecase"
)

// runOptions carries the flag values of a single invocation.
type runOptions struct {
	verbose    bool
	logFormat  string
	dryRun     bool
	configPath string
}

// runOnce performs one complete housekeeping pass: environment, logging,
// configuration and credentials, then the archive run itself.
func runOnce(ctx context.Context, opts runOptions) (*domain.Summary, error) {
	env, err := config.LoadEnvironment()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(env, opts)
	if err != nil {
		return nil, &domain.ConfigurationError{Source: "logging", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, env.RunTimeout)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(env.AWSRegion))
	if err != nil {
		return nil, &domain.ConfigurationError{Source: "aws", Err: fmt.Errorf("failed to load AWS configuration: %w", err)}
	}

	configPath := env.ConfigPath
	if opts.configPath != "" {
		configPath = opts.configPath
	}
	loader, err := config.Select(configPath, s3.NewFromConfig(awsCfg), env.ConfigBucket, env.ConfigKey, logger)
	if err != nil {
		return nil, err
	}
	resolver := credential.NewResolver(&credential.SecretsManagerSource{Client: secretsmanager.NewFromConfig(awsCfg)}, logger)

	settings, token, err := bootstrap(ctx, loader, resolver, env)
	if err != nil {
		return nil, err
	}
	logger.Debug("Bootstrap complete", "org", env.Organization)

	if settings.Features.ShowLogLocally {
		localLogger, closeLog, err := platform.WithLocalDebugFile(logger, platform.DebugLogFile)
		if err != nil {
			logger.Warn("Local debug log unavailable", "error", err)
		} else {
			defer closeLog()
			logger = localLogger
		}
	}

	githubGateway, err := gateway.NewGitHubGateway(token, logger)
	if err != nil {
		return nil, err
	}
	archiver := usecase.NewArchiver(githubGateway, logger, opts.dryRun)
	return archiver.Run(ctx, env.Organization, settings.Archive, time.Now().UTC())
}

// tokenSource is satisfied by *credential.Resolver.
type tokenSource interface {
	Token(ctx context.Context, org, clientID, secretName string) (string, error)
}

// bootstrap loads the configuration and resolves the installation token in
// parallel. Either failure cancels the other; a configuration failure is
// reported ahead of an authentication failure.
func bootstrap(ctx context.Context, loader config.Loader, tokens tokenSource, env *config.Environment) (*domain.Settings, string, error) {
	var (
		settings *domain.Settings
		token    string
		loadErr  error
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		settings, loadErr = loader.Load(egCtx)
		return loadErr
	})
	eg.Go(func() error {
		var err error
		token, err = tokens.Token(egCtx, env.Organization, env.AppClientID, env.SecretName)
		return err
	})
	if err := eg.Wait(); err != nil {
		if loadErr != nil {
			return nil, "", loadErr
		}
		return nil, "", err
	}
	return settings, token, nil
}

// newLogger applies the flag overrides on top of LOG_LEVEL and LOG_FORMAT.
func newLogger(env *config.Environment, opts runOptions) (*slog.Logger, error) {
	level := env.LogLevel
	if opts.verbose {
		level = "debug"
	}
	format := env.LogFormat
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	return platform.ConfigureLogger(level, format, os.Stderr)
}
