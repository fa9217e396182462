// Package vcs provides the git operations behind "gopherlings reset".
//
// Exercises ship inside a git checkout, so the pristine version of any
// exercise file is the one recorded in HEAD. Resetting an exercise is a
// matter of restoring that file from the index, which this package does by
// shelling out to the git CLI.
package vcs
