// Package files handles filesystem operations for the pipeline working
// directories: discovery of per-period raw extracts and basic managed
// reads and writes under the workspace.
package files
