/*
Package session owns the authentication state of the application.

A [Manager] drives the PIN authentication flow against plex.tv, discovers the
account's media servers, and records which server and music section the user
selected. Credentials and selections are persisted on every successful change
and restored when the Manager is created, so the user stays signed in across
restarts. The persisted token is not re-validated on restore; a revoked token
surfaces on the first subsequent API call.

The current [Session] is exposed as a value stream via [Manager.Subscribe] so
UI layers can react to state changes without polling.
*/
package session
