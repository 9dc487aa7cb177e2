package session

import (
	"github.com/spf13/afero"

	"github.com/clambin/plexmusic/internal/vault"
)

// credentials is the bundle persisted to the credential store. ClientID is
// permanent; everything else is cleared on sign-out.
type credentials struct {
	ClientID  string   `json:"clientID"`
	AuthToken string   `json:"authToken,omitempty"`
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
	Server    *Server  `json:"server,omitempty"`
	Section   *Section `json:"section,omitempty"`
}

// newCredentialStore returns the store for the credentials bundle: encrypted
// when a passphrase is available, plain JSON otherwise.
func newCredentialStore(fs afero.Fs, path, passphrase string) vault.Store[credentials] {
	if passphrase == "" {
		return vault.NewPlainWithFS[credentials](fs, path)
	}
	return vault.NewWithFS[credentials](fs, path, passphrase)
}
