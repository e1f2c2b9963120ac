// Package flags provides Cobra flag helpers: choice usage strings and toggle
// flags that accept yes/no values.
package flags
