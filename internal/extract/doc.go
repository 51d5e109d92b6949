// Package extract finds an implied place name inside free-text queries.
//
// Extraction is table driven: a Language describes the letters a place name may be
// written with, the words that separate two places and the capitalised words that are
// never places; a Trigger is a phrase meaning "from", "at", "near" or "in" in one
// language. Triggers are evaluated in table order, so adding a language is a data change.
//
// When a query names several places, only the first one is kept.
package extract
