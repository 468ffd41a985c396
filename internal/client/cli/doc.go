// Package cli implements the interactive terminal client for StudyNotes:
// a REPL over the session manager, the profile flows, and the notes view
// with its reading-completion tracking.
package cli
