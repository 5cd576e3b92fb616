// Package quotes loads motivational quote collections and serves them in
// shuffled, non-repeating order. A bundled collection ships in the binary;
// a user file configured via paths.quotes_file takes precedence when it
// contains at least one usable line.
package quotes
