// Package scaffold materializes a project from templates keyed by framework
// and UI library. The base template of the framework is copied first, then the
// UI overlay; the overlay's "<ui>.pkg.json" fragment is merged into
// package.json and removed. Files ending in .tmpl are rendered with
// text/template and lose the suffix.
package scaffold
