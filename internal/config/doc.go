// Package config loads run settings from an optional config file and
// the environment, with built-in defaults. Flag handling stays in the
// command; this package only produces the Settings the flags override.
package config
