// Package category defines the closed set of abstraction categories and the
// render-time Config that switches each of them on or off.
package category
