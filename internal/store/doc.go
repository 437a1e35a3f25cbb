// Package store persists the user's last accepted answer set as a single JSON
// record (by default ~/.codex/config.json). A record is usable only when it
// carries every required id; anything else is treated as absent and never
// repaired. Saves replace the record atomically.
package store
