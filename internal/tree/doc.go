// Package tree renders the growing bonsai and its ambient weather. The
// tree's age maps to one of nine embedded drawings, and a deterministic
// per-day season scatters weather particles across the scene.
package tree
