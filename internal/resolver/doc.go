// Package resolver produces the final answer set for a run. It decides
// between a full interview and the reuse shortcut, which carries a saved
// record forward with only the project name changed.
package resolver
