package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/nerrad567/zenoss-client/internal/audit"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/config"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/database"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/logging"
	"github.com/nerrad567/zenoss-client/migrations"
	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

// app holds the state shared by every subcommand of one invocation.
// Resources are opened lazily and released by close.
type app struct {
	configPath string
	output     string
	stdout     io.Writer

	cfg    *config.Config
	log    *logging.Logger
	client *zenoss.Client
	db     *database.DB
	audit  audit.Repository
}

// load reads the configuration and builds the logger.
//
// The path comes from --config, then ZENOSS_CONFIG, then the default. A
// missing default file falls back to environment-only configuration.
func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}

	path, explicit := a.configPath, a.configPath != ""
	if !explicit {
		if env := os.Getenv("ZENOSS_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = defaultConfigPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.cfg = cfg
	a.log = logging.New(cfg.Logging, version)
	return nil
}

// connect loads configuration and logs in to Zenoss.
func (a *app) connect(ctx context.Context) (*zenoss.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	if err := a.load(); err != nil {
		return nil, err
	}

	client, err := zenoss.Connect(ctx, zenossConfig(a.cfg))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", a.cfg.Zenoss.URL, err)
	}
	client.SetLogger(a.log)

	a.log.Debug("zenoss session established",
		"url", a.cfg.Zenoss.URL,
		"session_id", client.Session().ID(),
	)
	a.client = client
	return client, nil
}

// auditRepo opens the audit database when it is enabled.
// It returns nil, nil when auditing is disabled.
func (a *app) auditRepo(ctx context.Context) (audit.Repository, error) {
	if a.audit != nil {
		return a.audit, nil
	}
	if err := a.load(); err != nil {
		return nil, err
	}
	if !a.cfg.Database.Enabled {
		return nil, nil
	}

	db, err := database.Open(ctx, database.ConfigFrom(a.cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	a.db = db
	a.audit = audit.NewSQLiteRepository(db.DB)
	return a.audit, nil
}

// record writes an audit entry for a successful mutation.
// Audit failures are logged, never returned: the change already happened.
func (a *app) record(ctx context.Context, action, router, method, target string, details map[string]any) {
	repo, err := a.auditRepo(ctx)
	if err != nil {
		a.log.Warn("audit unavailable", "action", action, "error", err)
		return
	}
	if repo == nil {
		return
	}

	entry := &audit.Entry{
		Action:   action,
		Router:   router,
		Method:   method,
		Target:   target,
		Username: a.cfg.Zenoss.Username,
		Server:   a.cfg.Zenoss.URL,
		Details:  details,
	}
	if err := repo.Create(ctx, entry); err != nil {
		a.log.Warn("audit record failed", "action", action, "target", target, "error", err)
	}
}

// close releases whatever the command opened.
func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil && a.log != nil {
			a.log.Error("error closing database", "error", err)
		}
	}
	if a.log != nil {
		a.log.Close()
	}
}

// zenossConfig maps the zenoss section of config.yaml onto a session config.
func zenossConfig(cfg *config.Config) zenoss.Config {
	return zenoss.Config{
		URL:       cfg.Zenoss.URL,
		MountPath: cfg.Zenoss.MountPath,
		Username:  cfg.Zenoss.Username,
		Password:  cfg.Zenoss.Password,
		Auth:      zenoss.AuthMethod(cfg.Zenoss.Auth),
		Timeout:   cfg.GetTimeout(),
		TLS: zenoss.TLSConfig{
			CertFile:           cfg.Zenoss.TLS.CertFile,
			KeyFile:            cfg.Zenoss.TLS.KeyFile,
			CAFile:             cfg.Zenoss.TLS.CAFile,
			InsecureSkipVerify: cfg.Zenoss.TLS.InsecureSkipVerify,
		},
	}
}
