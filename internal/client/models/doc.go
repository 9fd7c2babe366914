// Package models defines the records kept by the LoveOps client: persons,
// dates with itemized costs, milestones, impressions, questions, plans,
// decisions and reminders, plus the backup document that carries all of
// them.
//
// JSON field names are camelCase and form the interchange format shared by
// the local store, backup files and the remote sync document. Dates are
// YYYY-MM-DD strings and timestamps are ISO-8601 strings, so ordering by the
// raw string is chronological.
package models
