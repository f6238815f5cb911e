// Package timerange interprets loose, human-style query phrases such as
// "today", "events this week" or "on 2024-03-15" as concrete time ranges
// for filtering calendar events.
//
// Classification is deliberately simple substring matching; anything that
// cannot be interpreted falls back to the current month and reports
// ErrUnparsedPhrase so the fallback is visible to callers.
package timerange
