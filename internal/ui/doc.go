// Package ui provides rendering functions for the twig terminal UI.
//
// Render takes RenderParams and produces the terminal output: a tab bar,
// the filter input, the branch table of the active tab and a footer. While
// an error is set only the error is drawn. Rendering is pure and separated
// from state management.
package ui
