// Package tests contains shared test utilities for the mailtrack backend.
package tests
