// Package dbus implements the companion settings channel on the session bus.
// The face exports a Send method that accepts a dictionary of settings
// (theme, label, event) and a client used by the CLI to call it.
package dbus
