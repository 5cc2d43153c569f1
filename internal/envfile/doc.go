// Package envfile merges credentials into the deployment's .env file.
//
// Merge is a pure function over file content; File adds atomic reads and
// writes on disk. Keys written by a merge replace any previous line for the
// same key, so repeated merges never duplicate entries.
package envfile
