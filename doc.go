// Package coins values a crypto currency portfolio against a price feed.
//
// The core functionalities include:
//   - Quotes: raw prices received from a feed, with conversion to the local
//     currency of the report.
//   - Anchors: two reference assets (bitcoin and ethereum) used to express
//     every other price and value in their own unit.
//   - Valuation: a two-phase Builder that accumulates held values and only
//     exposes percentages once the portfolio total is known.
//   - Resolution: matching the configured holdings against a bulk feed, with
//     individual lookups for the assets the bulk feed does not list.
//   - Loading: the INI configuration and holdings files.
//
// This package serves as the foundational logic for the `coins` command-line
// tool. Rendering lives in the renderer package.
package coins
