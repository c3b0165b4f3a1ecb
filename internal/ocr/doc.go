// Package ocr reads the numeric counter burned into the exported video clip.
//
// Frames are cropped and converted to grayscale by ffmpeg, contrast-limited
// adaptive histogram equalization and Otsu binarization run in Go, and the
// tesseract CLI recognizes a single text line per frame. Everything that is
// not a digit is dropped from the recognized text.
package ocr
