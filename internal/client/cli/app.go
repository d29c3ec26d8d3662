package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/storebox/internal/client/api"
	"github.com/dmitrijs2005/storebox/internal/client/config"
	"github.com/dmitrijs2005/storebox/internal/client/models"
	"github.com/dmitrijs2005/storebox/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/storebox/internal/client/store"
	"github.com/dmitrijs2005/storebox/internal/logging"
)

// backend is the slice of the API client the CLI commands use. The real
// api.Client satisfies it; tests provide a stub.
type backend interface {
	Authorized() bool
	SetTokens(access, refresh string)
	Tokens() (access, refresh string)
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	ListFiles(ctx context.Context, opts api.ListOptions) ([]models.File, error)
	UploadFile(ctx context.Context, name string, data []byte) (*models.File, error)
	RenameFile(ctx context.Context, fileID, newName string) (*models.File, error)
	UpdateSharing(ctx context.Context, fileID string, emails []string) (*models.File, error)
	DeleteFile(ctx context.Context, fileID string) error
	UsageSummary(ctx context.Context) (*models.UsageSummary, error)
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	api       backend
	store     *store.Repositories
	userEmail string
	reader    *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	sl := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(sl)

	repos, err := store.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)

	a := &App{
		config: c,
		logger: logger,
		api:    apiClient,
		store:  repos,
		reader: bufio.NewReader(os.Stdin),
	}
	a.restoreSession(ctx)

	return a, nil
}

// restoreSession loads a previously saved token pair and email from the
// local store, so a fresh process continues the old session.
func (a *App) restoreSession(ctx context.Context) {
	access, err := a.store.Metadata.Get(ctx, metadata.KeyAccessToken)
	if err != nil || access == nil {
		return
	}
	refresh, _ := a.store.Metadata.Get(ctx, metadata.KeyRefreshToken)
	email, _ := a.store.Metadata.Get(ctx, metadata.KeyUserEmail)

	a.api.SetTokens(string(access), string(refresh))
	a.userEmail = string(email)
}

// saveSession persists the current token pair and email.
func (a *App) saveSession(ctx context.Context) error {
	access, refresh := a.api.Tokens()
	if err := a.store.Metadata.Set(ctx, metadata.KeyAccessToken, []byte(access)); err != nil {
		return err
	}
	if err := a.store.Metadata.Set(ctx, metadata.KeyRefreshToken, []byte(refresh)); err != nil {
		return err
	}
	return a.store.Metadata.Set(ctx, metadata.KeyUserEmail, []byte(a.userEmail))
}

func (a *App) isLoggedIn() bool {
	return a.api.Authorized()
}

func (a *App) getStatus() string {
	if a.userEmail != "" {
		return "(" + a.userEmail + ")"
	}
	return ""
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
