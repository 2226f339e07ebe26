// Package cli provides the interactive notekeeper command-line client.
//
// The REPL talks to the server through client.Client: register and log in,
// list, add and delete notes, rotate tokens by hand with "refresh", and log
// out. The prompt shows the signed-in email.
package cli
