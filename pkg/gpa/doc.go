// Package gpa computes semester GPAs, cumulative GPAs and forward grade plans
// for the Nigerian 4.0 and 5.0 university grading scales.
//
// Every function in this package is pure: results depend only on the inputs,
// nothing is cached, and all functions are safe for concurrent use.
// Problems with individual course entries are reported inside results rather
// than aborting a whole computation.
package gpa
