// Package integration provides end-to-end tests for the tracker. They run the
// complete application against a fake roster API and record every Discord
// message instead of sending it.
package integration
