// Package console renders progress events and run results as colored
// terminal output. It is the only package that decides presentation;
// everything upstream emits plain events.
package console
