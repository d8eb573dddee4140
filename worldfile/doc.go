// Package worldfile reads and writes the plain-text world description
// consumed by the optimizer.
//
// Format:
//
//	{width}x{height} {dispensers}
//	{height rows of exactly width characters}
//
// A 'P' marks a city; any other character is an empty cell. Both "\n" and
// "\r\n" line endings are accepted. A row of spaces is a row of empty
// cells; whitespace-only lines after the last row are ignored.
//
// Example (3×2 board, one dispenser, cities in opposite corners):
//
//	3x2 1
//	P..
//	..P
//
// Errors:
//
//   - *FormatError (matching ErrFormat via errors.Is): malformed header,
//     non-positive dimensions, a row of the wrong length, or the wrong
//     number of rows. Line numbers are 1-based.
//   - world.ErrInvalidConfiguration from Spec.Build when the decoded
//     description does not fit the board.
package worldfile
