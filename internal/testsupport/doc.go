// Package testsupport builds throwaway configurations and fixture files for
// tests across packages.
package testsupport
