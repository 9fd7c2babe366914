// Package cli provides the interactive LoveOps command-line client.
//
// It wires configuration, the local store, the remote client and the sync
// engine into a REPL. Everything works offline; when a server is configured
// and the user is logged in, local saves are pushed after a short debounce
// and the remote copy is pulled on login and whenever the server comes back.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
