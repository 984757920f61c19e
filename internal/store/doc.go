// Package store holds the picker's application state and the only code
// allowed to change it.
//
// A Reducer maps (State, Event) to a new State plus at most one Effect. It
// performs no asynchronous work itself; effects are plain values describing
// what should happen next. A Store owns one State, feeds events through the
// Reducer one at a time on a single goroutine, runs the returned effects
// concurrently and enqueues their results as ordinary events.
//
// Superseded decodes are not cancelled. Unless Reducer.DropStaleDecodes is
// set, whichever DecodeResult arrives last wins, even if it belongs to an
// earlier selection.
package store
