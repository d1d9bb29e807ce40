// Package catalog indexes the read-only master catalog by toy number.
package catalog
