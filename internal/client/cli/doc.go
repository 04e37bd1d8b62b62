// Package cli provides the interactive SalesDesk command-line client.
//
// NewApp wires configuration, the SQLite state file, the authenticated API
// client and the session and project stores. App.Run restores the saved
// session and then serves a REPL until the user exits.
//
// Commands:
//   - login, logout, whoami
//   - projects, use <n|id>, newproject, renameproject
//   - orders, messages, integrations, subscription, usage, products,
//     reports, training: read-only views of the current project
//   - ask <text>: talk to the project assistant
//   - help, exit
//
// When the session expires mid-command the session store prints a notice
// and the prompt falls back to "(not logged in)".
package cli
