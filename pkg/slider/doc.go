// Package slider implements a cyclic slide show over the elements of a
// document: State tracks the current position with wraparound in both
// directions, and Controller re-synchronises the active marking of every slide
// after each transition.
package slider
