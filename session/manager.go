package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"sync"
	"time"

	"codeberg.org/clambin/go-common/set"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/clambin/plexmusic/internal/vault"
	"github.com/clambin/plexmusic/plextv"
)

var (
	// ErrNotAuthenticated indicates an operation requiring a token was invoked without one.
	// This is always a local failure; no network call is made.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthTimeout indicates the user did not approve the PIN within the polling window.
	ErrAuthTimeout = errors.New("authentication timeout")
)

const (
	defaultMaxPollAttempts = 60
	defaultPollInterval    = time.Second
)

type Option func(*Manager)

// WithLogger sets the Manager's logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithFilesystem sets the filesystem holding the credential store.
func WithFilesystem(fs afero.Fs) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// Manager owns the authentication state machine, the credential store and the
// server/section selection. There is one Manager per application.
type Manager struct {
	config plextv.Config
	store  vault.Store[credentials]
	fs     afero.Fs
	logger *slog.Logger

	lock        sync.Mutex
	creds       credentials
	session     Session
	subscribers []chan Session
}

// New returns a Manager persisting its credentials at storePath, encrypted
// with passphrase (or unencrypted if passphrase is blank). Persisted
// credentials and selections are restored eagerly: a previously signed-in user
// starts out [Authenticated] without a network round trip.
func New(cfg plextv.Config, storePath, passphrase string, opts ...Option) *Manager {
	m := Manager{
		config:  cfg,
		fs:      afero.NewOsFs(),
		logger:  slog.New(slog.DiscardHandler),
		session: NotAuthenticated{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.store = newCredentialStore(m.fs, storePath, passphrase)
	m.restore(storePath)
	return &m
}

// restore loads the persisted credentials, minting a client identifier on
// first use. If the encrypted store can't be read, it falls back to the plain
// store rather than locking the user out of the feature.
func (m *Manager) restore(storePath string) {
	creds, err := m.store.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		var invalidKey *vault.ErrInvalidKey
		if errors.As(err, &invalidKey) {
			m.logger.Warn("credential store unreadable, falling back to plain store", "err", err)
			m.store = vault.NewPlainWithFS[credentials](m.fs, storePath)
			creds, err = m.store.Load()
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("failed to restore credentials", "err", err)
		}
	}
	if creds.ClientID == "" {
		creds.ClientID = uuid.New().String()
		if err = m.store.Save(creds); err != nil {
			m.logger.Warn("failed to persist client identifier", "err", err)
		}
	}
	m.creds = creds
	m.config.ClientID = creds.ClientID
	if creds.AuthToken != "" {
		m.session = Authenticated{User: User{Username: creds.Username, Email: creds.Email}}
	}
}

// Current returns the current Session.
func (m *Manager) Current() Session {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.session
}

// Subscribe returns a channel emitting the current Session and every
// subsequent state change. The channel holds the latest state only: slow
// consumers see intermediate states collapsed.
func (m *Manager) Subscribe() <-chan Session {
	m.lock.Lock()
	defer m.lock.Unlock()
	ch := make(chan Session, 1)
	ch <- m.session
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Unsubscribe removes a channel previously returned by Subscribe.
func (m *Manager) Unsubscribe(ch <-chan Session) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.subscribers = slices.DeleteFunc(m.subscribers, func(sub chan Session) bool {
		return sub == ch
	})
}

// setSession must be called with the lock held.
func (m *Manager) setSession(s Session) {
	m.session = s
	for _, sub := range m.subscribers {
		// replace a pending state with the latest one
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- s:
		default:
		}
	}
}

func (m *Manager) fail(message string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.setSession(AuthFailed{Message: message})
}

// StartOAuth begins the PIN authentication flow: it requests a PIN from
// plex.tv and transitions the session to [Authenticating]. The caller shows
// the user the URL returned by [Manager.AuthURL] for the PIN's code, then
// calls [Manager.WaitForAuthentication] with the PIN's Id.
func (m *Manager) StartOAuth(ctx context.Context) (plextv.PIN, error) {
	m.lock.Lock()
	m.setSession(Authenticating{})
	cfg := m.config
	m.lock.Unlock()

	pin, err := cfg.PINRequest(ctx)
	if err != nil {
		m.fail(err.Error())
		return plextv.PIN{}, fmt.Errorf("pin request: %w", err)
	}
	m.logger.Debug("pin requested", "id", pin.Id)
	return pin, nil
}

// AuthURL returns the URL where the user approves the given PIN code.
func (m *Manager) AuthURL(code string) string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.config.AuthURL(code)
}

// WaitForAuthentication polls plex.tv until the user approves the PIN. It
// waits interval between attempts and gives up after maxAttempts, failing
// with [ErrAuthTimeout] and transitioning the session to [AuthFailed].
// Pass 0 for the defaults (60 attempts, 1s interval).
//
// The call blocks until resolution, timeout or cancellation. Cancelling ctx
// aborts the in-flight call, performs no state transition and persists
// nothing.
func (m *Manager) WaitForAuthentication(ctx context.Context, pinID int, maxAttempts int, interval time.Duration) error {
	maxAttempts = cmp.Or(maxAttempts, defaultMaxPollAttempts)
	interval = cmp.Or(interval, defaultPollInterval)

	for range maxAttempts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		token, _, err := m.config.ValidatePIN(ctx, pinID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.fail(err.Error())
			return fmt.Errorf("validate pin: %w", err)
		}
		if token != "" {
			return m.completeAuthentication(ctx, token)
		}
	}
	m.fail(ErrAuthTimeout.Error())
	return ErrAuthTimeout
}

// completeAuthentication fetches the user for the resolved token, persists the
// bundle and transitions to [Authenticated].
func (m *Manager) completeAuthentication(ctx context.Context, token plextv.Token) error {
	plexUser, err := m.config.Client(token).User(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.fail(err.Error())
		return fmt.Errorf("user: %w", err)
	}

	user := User{
		ID:       plexUser.Id,
		UUID:     plexUser.Uuid,
		Username: plexUser.Username,
		Title:    plexUser.Title,
		Email:    plexUser.Email,
		Thumb:    plexUser.Thumb,
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.creds.AuthToken = cmp.Or(plexUser.AuthToken, token.String())
	m.creds.Username = plexUser.Username
	m.creds.Email = plexUser.Email
	if err = m.store.Save(m.creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	m.setSession(Authenticated{User: user})
	m.logger.Info("authenticated", "username", user.Username)
	return nil
}

// Token returns the account's auth token, if present.
func (m *Manager) Token() (plextv.Token, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return plextv.Token(m.creds.AuthToken), m.creds.AuthToken != ""
}

// DiscoverServers lists the media servers available to the account. For each
// server, one connection endpoint is chosen: remote endpoints are preferred
// over local ones, and https over http. Servers without any connection
// endpoint are dropped. The returned access token falls back to the account
// token for servers that don't carry their own.
func (m *Manager) DiscoverServers(ctx context.Context) ([]Server, error) {
	m.lock.Lock()
	token := m.creds.AuthToken
	cfg := m.config
	m.lock.Unlock()

	if token == "" {
		return nil, ErrNotAuthenticated
	}

	values := url.Values{"includeHttps": []string{"1"}, "includeRelay": []string{"1"}}
	resources, err := cfg.Client(plextv.Token(token)).Resources(ctx, values)
	if err != nil {
		return nil, fmt.Errorf("resources: %w", err)
	}

	seen := set.New[string]()
	servers := make([]Server, 0, len(resources))
	for _, resource := range resources {
		if resource.Product != "Plex Media Server" {
			continue
		}
		if seen.Contains(resource.ClientIdentifier) {
			continue
		}
		connection, ok := bestConnection(resource.Connections)
		if !ok {
			continue
		}
		seen.Add(resource.ClientIdentifier)
		servers = append(servers, Server{
			ID:          resource.ClientIdentifier,
			Name:        resource.Name,
			URI:         connection.Uri,
			AccessToken: cmp.Or(resource.AccessToken, token),
			Owned:       resource.Owned,
			Local:       connection.Local,
		})
	}
	m.logger.Debug("servers discovered", "count", len(servers))
	return servers, nil
}

// bestConnection picks a resource's connection endpoint by ascending
// (local, not-https): remote https first, local http last.
func bestConnection(connections []plextv.Connection) (plextv.Connection, bool) {
	if len(connections) == 0 {
		return plextv.Connection{}, false
	}
	best := slices.MinFunc(connections, func(a, b plextv.Connection) int {
		if c := cmpBool(a.Local, b.Local); c != 0 {
			return c
		}
		return cmpBool(a.Protocol != "https", b.Protocol != "https")
	})
	return best, true
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	default:
		return 1
	}
}

// SelectServer records the server to use for library operations and persists
// it. Selecting a different server invalidates the selected section; the
// caller should clear any cached library data and re-fetch sections.
// Selecting the already-selected server is a no-op.
func (m *Manager) SelectServer(server Server) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.creds.Server != nil && *m.creds.Server == server {
		return nil
	}
	if m.creds.Server == nil || m.creds.Server.ID != server.ID {
		m.creds.Section = nil
	}
	m.creds.Server = &server
	if err := m.store.Save(m.creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	m.logger.Info("server selected", "name", server.Name, "uri", server.URI)
	return nil
}

// SelectSection records the library section to use and persists it.
func (m *Manager) SelectSection(section Section) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.creds.Section = &section
	if err := m.store.Save(m.creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	m.logger.Info("section selected", "title", section.Title)
	return nil
}

// SelectedServer returns the selected server, if any.
func (m *Manager) SelectedServer() (Server, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.creds.Server == nil {
		return Server{}, false
	}
	return *m.creds.Server, true
}

// SelectedSection returns the selected section, if any.
func (m *Manager) SelectedSection() (Section, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.creds.Section == nil {
		return Section{}, false
	}
	return *m.creds.Section, true
}

// SignOut clears the persisted token and selections and transitions to
// [NotAuthenticated]. The client identifier is kept: plex.tv continues to
// recognize the device on the next sign-in.
func (m *Manager) SignOut() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.creds = credentials{ClientID: m.creds.ClientID}
	if err := m.store.Delete(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	if err := m.store.Save(m.creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	m.setSession(NotAuthenticated{})
	m.logger.Info("signed out")
	return nil
}

// Retry transitions from [AuthFailed] back to [Authenticating] so the caller
// can start a new PIN flow.
func (m *Manager) Retry(ctx context.Context) (plextv.PIN, error) {
	return m.StartOAuth(ctx)
}
