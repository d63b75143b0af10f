// Package keys owns the local key-pair lifecycle: generate, persist,
// retrieve, rotate, age-check, and erase. All mutation of the active pair
// goes through one mutex so rotation is never observed half-applied.
package keys
