package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mohamedimran-32/jobportal-client/config"
	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/internal/repository/memory"
	"github.com/mohamedimran-32/jobportal-client/internal/repository/rest"
	"github.com/mohamedimran-32/jobportal-client/internal/repository/sqlite"
	"github.com/mohamedimran-32/jobportal-client/internal/usecase"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
	"github.com/mohamedimran-32/jobportal-client/pkg/logger"
	"github.com/mohamedimran-32/jobportal-client/pkg/validation"
)

const usage = `Usage: jobportal <command> [flags]

Commands:
  login         -email -password
  register      -email -username -password -role [-phone]
  logout
  whoami
  jobs          list active postings
  job           -id
  save          -id                     toggle the saved flag for a job
  saved         list saved jobs
  apply         -id [-cover]
  applications  list applications (role-scoped)
  job-apps      -id                     applications for one posting
  set-status    -id -status
  post-job      -title -description -category -location -type -requirements [-remote]
  dashboard     jobs + applications + saved in one view
`

// app bundles the wired usecases for command handlers.
type app struct {
	session      *usecase.SessionManager
	savedJobs    *usecase.SavedJobs
	applications *usecase.ApplicationWorkflow
	jobs         domain.JobAPI
	log          *zap.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer zlog.Sync()

	// 3. Setup Token Store
	var tokens domain.TokenRepository
	if cfg.TokenDBPath == "" {
		tokens = memory.NewTokenRepository()
	} else {
		store, err := sqlite.Open(cfg.TokenDBPath)
		if err != nil {
			zlog.Fatal("open credential store", zap.Error(err))
		}
		defer store.Close()
		tokens = store
	}

	// 4. Setup Repositories
	client := rest.NewClient(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, tokens, zlog)
	authAPI := rest.NewAuthRepository(client)
	jobAPI := rest.NewJobRepository(client)
	applicationAPI := rest.NewApplicationRepository(client)

	// 5. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	session := usecase.NewSessionManager(authAPI, tokens, validate, zlog)
	a := &app{
		session:      session,
		savedJobs:    usecase.NewSavedJobs(session, jobAPI, zlog),
		applications: usecase.NewApplicationWorkflow(session, applicationAPI, zlog),
		jobs:         jobAPI,
		log:          zlog,
	}

	ctx := context.Background()

	// Settle the session before any command runs. Commands that need no
	// credentials work fine from the anonymous state this lands on.
	if err := a.session.Initialize(ctx); err != nil {
		zlog.Warn("session not restored", zap.Error(err))
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fail(err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		return a.session.Logout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "jobs":
		return a.cmdJobs(ctx)
	case "job":
		return a.cmdJob(ctx, args)
	case "save":
		return a.cmdSave(ctx, args)
	case "saved":
		return a.cmdSaved(ctx)
	case "apply":
		return a.cmdApply(ctx, args)
	case "applications":
		return a.cmdApplications(ctx)
	case "job-apps":
		return a.cmdJobApplications(ctx, args)
	case "set-status":
		return a.cmdSetStatus(ctx, args)
	case "post-job":
		return a.cmdPostJob(ctx, args)
	case "dashboard":
		return a.cmdDashboard(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	input := domain.RegisterInput{}
	fs.StringVar(&input.Email, "email", "", "account email")
	fs.StringVar(&input.Username, "username", "", "display name")
	fs.StringVar(&input.Password, "password", "", "password (min 8 chars)")
	role := fs.String("role", string(domain.RoleJobSeeker), "job_seeker or employer")
	fs.StringVar(&input.PhoneNumber, "phone", "", "phone number (optional)")
	fs.Parse(args)
	input.Role = domain.Role(*role)

	user, err := a.session.Register(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Registered and logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.State != domain.StateAuthenticated {
		fmt.Printf("Not logged in (session %s)\n", snap.State)
		return nil
	}
	return printJSON(snap.Identity)
}

func (a *app) cmdJobs(ctx context.Context) error {
	jobs, err := a.jobs.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(jobs)
}

func (a *app) cmdJob(ctx context.Context, args []string) error {
	id, err := idFlag("job", args)
	if err != nil {
		return err
	}
	job, err := a.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	a.savedJobs.SeedFromJob(job)
	return printJSON(job)
}

func (a *app) cmdSave(ctx context.Context, args []string) error {
	id, err := idFlag("save", args)
	if err != nil {
		return err
	}

	// Seed from the server's read model so the toggle acts on current truth.
	job, err := a.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	a.savedJobs.SeedFromJob(job)

	result, err := a.savedJobs.Toggle(ctx, id)
	if err != nil {
		return err
	}
	if result.Rejection != nil {
		return result.Rejection
	}
	if !result.Changed {
		fmt.Println("Saving is only available to job seekers")
		return nil
	}
	if result.Saved {
		fmt.Printf("Job %d saved\n", id)
	} else {
		fmt.Printf("Job %d removed from saved\n", id)
	}
	return nil
}

func (a *app) cmdSaved(ctx context.Context) error {
	jobs, err := a.jobs.Saved(ctx)
	if err != nil {
		return err
	}
	return printJSON(jobs)
}

func (a *app) cmdApply(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	id := fs.Int64("id", 0, "job id")
	cover := fs.String("cover", "", "cover letter")
	fs.Parse(args)

	result, err := a.applications.Submit(ctx, *id, *cover)
	if err != nil {
		return err
	}
	if result.Rejection != nil {
		return result.Rejection
	}
	fmt.Printf("Applied to job %d\n", *id)
	return nil
}

func (a *app) cmdApplications(ctx context.Context) error {
	apps, err := a.applications.Refresh(ctx)
	if err != nil {
		return err
	}
	return printJSON(apps)
}

func (a *app) cmdJobApplications(ctx context.Context, args []string) error {
	id, err := idFlag("job-apps", args)
	if err != nil {
		return err
	}
	apps, err := a.applications.ApplicationsForJob(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(apps)
}

func (a *app) cmdSetStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ExitOnError)
	id := fs.Int64("id", 0, "application id")
	status := fs.String("status", "", "new status")
	fs.Parse(args)

	result, err := a.applications.UpdateStatus(ctx, *id, *status)
	if err != nil {
		return err
	}
	if result.Rejection != nil {
		return result.Rejection
	}
	fmt.Printf("Application %d moved to %s\n", *id, *status)
	return nil
}

func (a *app) cmdPostJob(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post-job", flag.ExitOnError)
	input := domain.JobCreateInput{}
	fs.StringVar(&input.Title, "title", "", "job title")
	fs.StringVar(&input.Description, "description", "", "description")
	fs.StringVar(&input.Category, "category", "", "category")
	fs.StringVar(&input.Location, "location", "", "location")
	fs.StringVar(&input.JobType, "type", domain.JobTypeFullTime, "job type")
	fs.StringVar(&input.Requirements, "requirements", "", "requirements")
	fs.BoolVar(&input.Remote, "remote", false, "remote position")
	fs.Parse(args)

	job, err := a.jobs.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Posted job %d: %s\n", job.ID, job.Title)
	return nil
}

// cmdDashboard fetches the three role-relevant lists concurrently; the
// independent reads make this the one command where latency stacks up.
func (a *app) cmdDashboard(ctx context.Context) error {
	snap := a.session.Snapshot()

	var (
		jobs  []domain.Job
		apps  []domain.Application
		saved []domain.Job
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = a.jobs.List(gctx)
		return err
	})
	if snap.State == domain.StateAuthenticated {
		g.Go(func() error {
			var err error
			apps, err = a.applications.Refresh(gctx)
			return err
		})
	}
	if snap.Role() == domain.RoleJobSeeker {
		g.Go(func() error {
			var err error
			saved, err = a.jobs.Saved(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return printJSON(map[string]any{
		"session":      snap.State.String(),
		"jobs":         jobs,
		"applications": apps,
		"saved":        saved,
	})
}

func idFlag(name string, args []string) (int64, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.Int64("id", 0, "resource id")
	fs.Parse(args)
	if *id == 0 {
		return 0, fmt.Errorf("%s: -id is required", name)
	}
	return *id, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// fail prints expected rejections compactly; field-level validation errors
// get one line per field, the way the server would report them.
func fail(err error) {
	if appErr := apperror.AsAppError(err); appErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", appErr.Message)
		for field, msgs := range appErr.Fields {
			for _, msg := range msgs {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
