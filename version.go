// Package findex builds content-addressed catalogs of directory trees and compares them.
package findex

// Version is recorded in the meta table of every catalog and comparison.
const Version = "0.5.0"
