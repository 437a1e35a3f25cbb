// Package platform wraps filesystem operations whose behavior differs across
// operating systems.
package platform
