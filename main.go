package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/muhammadolammi/skillbridge/internal/auth"
	"github.com/muhammadolammi/skillbridge/internal/catalog"
	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/muhammadolammi/skillbridge/internal/llm"
	"github.com/muhammadolammi/skillbridge/internal/notify"
	"github.com/muhammadolammi/skillbridge/internal/resume"
	"github.com/muhammadolammi/skillbridge/internal/storage"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "skillbridge",
		Short:        "Career coaching service: plans, mentors and notifications",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newGenerateCmd(), newProbeCmd())
	return root
}

// buildApp wires every dependency from cfg. Integrations without settings are
// left out rather than treated as errors.
func buildApp(ctx context.Context, cfg Config) (*App, error) {
	log := newLogger(cfg.LogLevel, cfg.LogPretty)
	app := &App{
		Config:   cfg,
		Log:      log,
		Notifier: notify.Nop{},
		Validate: validator.New(),
	}

	var queries *database.Queries
	if cfg.Warehouse.Driver != "" {
		db, err := database.Open(ctx, cfg.Warehouse)
		if err != nil {
			if !cfg.UseLocalCSV {
				return nil, fmt.Errorf("open warehouse: %w", err)
			}
			log.Warn().Err(err).Str("driver", cfg.Warehouse.Driver).Msg("warehouse unavailable, using flat files")
		} else {
			app.DB = db
			if queries, err = database.New(db); err != nil {
				db.Close()
				return nil, err
			}
		}
	}
	app.Store = storage.New(queries,
		storage.ResolverConfig{Target: cfg.Namespace, AllowCreate: cfg.AllowCreate},
		cfg.DataDir, storage.WithLogger(log))

	if cfg.UseLocalCSV || app.DB == nil {
		app.Catalog = catalog.NewCSVSource(cfg.DataDir)
	} else {
		src, err := catalog.NewSQLSource(app.DB, cfg.Namespace)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Catalog = src
	}
	app.Auth = auth.NewService(app.Catalog, auth.DefaultSessionTTL)

	app.Chain = llm.NewChain(log,
		llm.NewServing(cfg.ServingEndpoint, cfg.ServingToken, cfg.ServingModel),
		llm.NewAzure(cfg.Azure),
		llm.NewGemini(cfg.GoogleAPIKey, cfg.GeminiModel),
		llm.Mock{},
	)

	if cfg.RabbitMQURL != "" {
		pub, err := notify.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, notifications are stored only")
		} else {
			app.Notifier = pub
		}
	}

	if cfg.R2.Enabled() {
		d, err := resume.NewR2Downloader(ctx, cfg.R2)
		if err != nil {
			log.Warn().Err(err).Msg("r2 unavailable, resume downloads disabled")
		} else {
			app.Resumes = d
		}
	}
	return app, nil
}

func (app *App) Close() {
	if err := app.Notifier.Close(); err != nil {
		app.Log.Warn().Err(err).Msg("closing notifier")
	}
	if app.DB != nil {
		app.DB.Close()
	}
}

func setup(cmd *cobra.Command) (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildApp(cmd.Context(), cfg)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.Config.LogPretty {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              ":" + app.Config.Port,
				Handler:           newRouter(app),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.Log.Info().Str("addr", srv.Addr).Strs("backends", app.Chain.Backends()).Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			app.Log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		req    GeneratePlanRequest
		skills string
		email  string
		kind   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and save a plan for one mentee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			req.Skills = normalizeSkills([]string{skills})
			req.Kind = PlanKind(kind)
			if err := app.Validate.Struct(req); err != nil {
				return errors.New(validationMessage(err))
			}
			if email == "" {
				email = strings.ToLower(strings.ReplaceAll(req.Name, " ", ".")) + "@local"
			}

			out, err := app.GeneratePlan(cmd.Context(), email, req)
			if err != nil {
				var exhausted *llm.ExhaustedError
				if errors.As(err, &exhausted) {
					return fmt.Errorf("%w\n%s", err, generationHelp)
				}
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out.Plan.Plan)
			fmt.Fprintf(w, "\nplan %s generated by %s\n", out.Plan.ID, out.Backend)
			if len(out.Failures) > 0 {
				fmt.Fprintf(w, "skipped backends:\n%s", llm.Describe(out.Failures))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "mentee name")
	f.IntVar(&req.Age, "age", 20, "mentee age")
	f.StringVar(&skills, "skills", "", "comma separated current skills")
	f.StringVar(&req.Interests, "interests", "", "career interests")
	f.StringVar(&email, "email", "", "owner email for the saved plan")
	f.StringVar(&kind, "kind", string(PlanUpskilling), "upskilling, assessment or job-match")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Resolve and print where each record kind is stored",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			w := cmd.OutOrStdout()
			for _, kind := range database.Kinds {
				b, err := app.Store.Binding(cmd.Context(), kind)
				if b.Usable {
					fmt.Fprintf(w, "%-18s warehouse %s\n", kind, b.Location)
					continue
				}
				fmt.Fprintf(w, "%-18s flat file %s/%s.csv\n", kind, app.Config.DataDir, kind)
				if err != nil {
					fmt.Fprintf(w, "%-18s   reason: %v\n", "", err)
				}
			}
			return nil
		},
	}
}
