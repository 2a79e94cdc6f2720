// Package formats provides binary codecs for the mesh files produced by the
// terrain pipeline.
package formats

// Note: binary STL (triangle soup) is implemented in stl.go
