// Package thumbnail composes downloaded face images into the published
// support thumbnails.
//
// Servant sheets stack one fixed-size strip per face image; craft essence
// cards crop a single scaled face. Every output is written twice: the color
// composite and a single-channel grayscale copy with identical dimensions.
// Geometry is a fixed table (see Geometry) so outputs are reproducible
// across runs.
package thumbnail
