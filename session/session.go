package session

// A Session is the authentication state of the application. It is one of
// [NotAuthenticated], [Authenticating], [Authenticated] or [AuthFailed].
// Consumers should switch exhaustively over these four variants.
type Session interface {
	isSession()
}

// NotAuthenticated is the initial state: no token is present.
type NotAuthenticated struct{}

// Authenticating indicates a PIN flow is in progress.
type Authenticating struct{}

// Authenticated indicates the user has signed in.
type Authenticated struct {
	User User
}

// AuthFailed indicates the last authentication attempt failed. The user can
// retry, which transitions back to [Authenticating].
type AuthFailed struct {
	Message string
}

func (NotAuthenticated) isSession() {}
func (Authenticating) isSession()   {}
func (Authenticated) isSession()    {}
func (AuthFailed) isSession()       {}

// User identifies the signed-in plex.tv account.
type User struct {
	ID       int
	UUID     string
	Username string
	Title    string
	Email    string
	Thumb    string
}

// Server describes one media server available to the account, with the
// connection endpoint chosen during discovery.
type Server struct {
	// ID is the server's stable identifier (its client identifier on plex.tv).
	ID string
	// Name is the server's display name.
	Name string
	// URI is the base URI of the chosen connection endpoint.
	URI string
	// AccessToken is the server-scoped token. It may differ from the account token.
	AccessToken string
	// Owned indicates the account owns this server (vs. a share).
	Owned bool
	// Local indicates the chosen endpoint is on the local network.
	Local bool
}

// Section identifies one library section on the selected server.
type Section struct {
	Key   string
	Title string
}
