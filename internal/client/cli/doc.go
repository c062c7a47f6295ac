// Package cli provides the interactive authportal command-line client.
//
// App ties the session store and the login and registration flows to a
// REPL. Server-side redirects (for example "/register?email=...") become
// the next prompt or a hint, and emailed links are pasted back with the
// confirm and verify commands.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is cancelled. See runREPL for the command list.
package cli
