// Package domain holds the sales table and the values derived from it.
//
// A Table is built once per upload by the loader and never modified. The
// aggregator reads it and produces a Report, which is handed to the
// presentation layer and then dropped.
package domain
