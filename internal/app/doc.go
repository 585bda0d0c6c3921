// Package app provides the main Bubble Tea application model for twig.
//
// Model holds two tabs, local and remote branches, each a filterable list.
// Key presses become git commands that run off the event loop; their results
// come back as CommandResultMsg and are applied one at a time in Update.
// A failed command replaces the screen with its error until the next key.
//
// The main type is Model, which implements the Bubble Tea interface
// (Init, Update, View).
package app
