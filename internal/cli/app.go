package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/saikai-app/cardvault/internal/backend"
	"github.com/saikai-app/cardvault/internal/buildinfo"
	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/config"
	"github.com/saikai-app/cardvault/internal/cryptox"
	"github.com/saikai-app/cardvault/internal/filex"
	"github.com/saikai-app/cardvault/internal/keys"
	"github.com/saikai-app/cardvault/internal/logging"
	cardsrepo "github.com/saikai-app/cardvault/internal/repositories/cards"
	historyrepo "github.com/saikai-app/cardvault/internal/repositories/history"
	"github.com/saikai-app/cardvault/internal/services"
	"github.com/saikai-app/cardvault/internal/storage"
)

// ErrInsecureCipherInRelease is returned when the reversible stand-in
// cipher is requested outside a dev build.
var ErrInsecureCipherInRelease = errors.New("insecure cipher is not available in release builds")

type App struct {
	config     *config.Config
	db         *sql.DB
	keyManager *keys.Manager
	cards      services.CardService
	tracker    *services.CooldownTracker
	reconciler *services.Reconciler
	apiClient  backend.Client
	log        logging.Logger
	reader     *bufio.Reader
}

// NewApp wires storage, key management, the cipher, the card services and
// the backend client from configuration.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	dbPath, err := resolveDatabasePath(c)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "failed to open database", "path", dbPath, "error", err)
		return nil, err
	}

	var keyOpts []keys.Option
	if c.ProtectedKeystore {
		passphrase, err := GetPassword(os.Stdout)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		keyOpts = append(keyOpts, keys.WithPassphrase(passphrase))
	}
	keyManager := keys.NewManager(db, keyOpts...)

	cipher, err := selectCipher(ctx, c, keyManager)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	tracker := services.NewCooldownTracker(db, historyrepo.NewDocumentRepository(),
		services.WithCooldownPeriod(c.CooldownPeriod))

	cards, err := services.NewCardService(db, cardsrepo.NewDocumentRepository(), cipher, tracker, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient, err := backend.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:     c,
		db:         db,
		keyManager: keyManager,
		cards:      cards,
		tracker:    tracker,
		reconciler: services.NewReconciler(),
		apiClient:  apiClient,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

func resolveDatabasePath(c *config.Config) (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := filex.DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cardvault.db"), nil
}

// selectCipher picks the Cipher implementation at startup, so no call site
// ever branches on the backend again. The reversible stand-in needs both a
// dev build and an explicit config switch.
func selectCipher(ctx context.Context, c *config.Config, km *keys.Manager) (cryptox.Cipher, error) {
	if c.InsecureCipher {
		if !buildinfo.IsDev() {
			return nil, ErrInsecureCipherInRelease
		}
		return cryptox.Base64Codec{}, nil
	}

	key, err := km.GetOrCreateKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyUnavailable, err)
	}
	return cryptox.NewAESGCM(key)
}

// Run starts the interactive loop and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Println("cardvault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, scanner)
}

// Close releases the database, the backend connection and the in-memory key.
func (a *App) Close() {
	a.keyManager.Close()
	if a.apiClient != nil {
		_ = a.apiClient.Close()
	}
	_ = a.db.Close()
}
