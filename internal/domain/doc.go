// Package domain defines the data model shared by every kprefs layer.
// It contains plain types (values, records, profiles), the error taxonomy
// and the storage/event contracts only; it performs no I/O.
package domain
