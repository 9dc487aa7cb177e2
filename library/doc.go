/*
Package library maintains the in-memory snapshot of the selected music
section and converts the server's schemas into the player's Song, Album and
Artist models.

The snapshot holds the three entity collections independently; a refresh
replaces each collection wholesale as its fetch completes, without merging or
rolling back. Reads never touch the network: they convert whatever the latest
snapshot holds. Each collection remembers the server it was fetched from, so
stream and thumbnail URLs stay correct even if the user switches servers
without refreshing.
*/
package library
