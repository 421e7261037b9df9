// Package meal holds the tenant meal scheduling state model: the cutoff
// policy, the normalization of per-date menu payloads, and the session
// scoped weekly schedule cache.
//
// Nothing here performs I/O. The client package drives fetches and
// commands and feeds their results into a WeeklySchedule.
package meal
