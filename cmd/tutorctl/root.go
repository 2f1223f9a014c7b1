package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/bootstrap"
	"gopherai-tutor/internal/config"
	"gopherai-tutor/internal/conversation"
	"gopherai-tutor/internal/logger"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/subject"
)

const localSessionID = "local"

type options struct {
	configPath   string
	sessionFile  string
	subjectsFile string
	subject      string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "tutorctl",
		Short:        "Ask the AI tutor from the command line",
		Long:         "tutorctl runs a single tutoring session backed by a session file on disk.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "configs/config.toml", "Path to the TOML config file")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session-file", "tutor_session.json", "Session file holding the chat history")
	root.PersistentFlags().StringVar(&opts.subjectsFile, "subjects-file", "", "YAML catalog of custom subjects (defaults to tutor.subjects_file)")
	root.PersistentFlags().StringVarP(&opts.subject, "subject", "s", "", "Subject to use (defaults to tutor.default_subject)")

	root.AddCommand(
		newSubjectsCmd(opts),
		newAskCmd(opts),
		newHistoryCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
		newClearCmd(opts),
	)
	return root
}

// runtime is the per-invocation state shared by the commands.
type runtime struct {
	cfg         *config.Config
	log         *logger.Logger
	opts        *options
	service     *app.SessionService
	session     *app.Session
	catalogPath string
}

// open loads config, catalog and history. The model client is only created
// when withModel is set, since constructing it may probe the remote API.
func open(ctx context.Context, opts *options, withModel bool) (*runtime, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	var tutor *app.TutorService
	if withModel {
		tutor, err = bootstrap.NewTutor(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
	} else {
		tutor = app.NewTutorService(nil, nil, app.TutorConfig{Messages: bootstrap.Messages(cfg.Messages)}, log)
	}

	catalogPath := opts.subjectsFile
	if catalogPath == "" {
		catalogPath = cfg.Tutor.SubjectsFile
	}
	catalog := &subject.Catalog{}
	if catalogPath != "" {
		if catalog, err = subject.LoadCatalog(catalogPath); err != nil {
			return nil, err
		}
	}

	history, err := conversation.LoadSession(sessionPath(cfg, opts))
	if err != nil {
		return nil, err
	}

	selected := opts.subject
	if selected == "" {
		selected = cfg.Tutor.DefaultSubject
	}

	svc := app.NewSessionService(tutor, app.SessionDeps{}, app.SessionServiceConfig{
		DefaultSubject: cfg.Tutor.DefaultSubject,
	}, log)
	sess := svc.Restore(ctx, model.SessionSnapshot{
		ID:              localSessionID,
		SelectedSubject: selected,
		CustomSubjects:  catalogSubjects(catalog),
		History:         history,
		CreatedAt:       time.Now(),
	})
	if opts.subject != "" && sess.Selected().Name != opts.subject {
		return nil, fmt.Errorf("%w: %s", subject.ErrNotFound, opts.subject)
	}

	return &runtime{
		cfg:         cfg,
		log:         log,
		opts:        opts,
		service:     svc,
		session:     sess,
		catalogPath: catalogPath,
	}, nil
}

func (r *runtime) close() {
	r.log.Sync()
}

func (r *runtime) saveHistory() error {
	_, err := conversation.SaveSession(sessionPath(r.cfg, r.opts), r.session.History(""), time.Now())
	return err
}

// sessionPath resolves a relative session file against tutor.session_dir.
func sessionPath(cfg *config.Config, opts *options) string {
	if filepath.IsAbs(opts.sessionFile) || cfg.Tutor.SessionDir == "" {
		return opts.sessionFile
	}
	return filepath.Join(cfg.Tutor.SessionDir, opts.sessionFile)
}

func catalogSubjects(c *subject.Catalog) []model.Subject {
	out := make([]model.Subject, 0, len(c.Subjects))
	for _, e := range c.Subjects {
		out = append(out, model.Subject{
			Name:        e.Name,
			Description: e.Description,
			Context:     e.Context,
			Icon:        e.Icon,
		})
	}
	return out
}
