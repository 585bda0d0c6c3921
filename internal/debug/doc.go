// Package debug provides debug logging functionality for twig.
//
// When enabled via the --debug flag or TWIG_DEBUG, it logs every git command
// twig issues, how long it took, and why results were rejected.
package debug
