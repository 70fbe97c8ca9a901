// Package testutil provides deterministic fakes shared by package tests.
package testutil
