// Package cli holds the command line plumbing shared by the wizard's client
// commands: common flags, progress spinners, output rendering (table, JSON
// or YAML) and user-facing error messages.
package cli
