// Package runtime detects the JavaScript toolchain a generated project needs:
// Node.js, git, and the package managers offered by the interview. Versions
// are read from each tool's --version output and compared with semver.
package runtime
