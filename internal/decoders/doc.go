// Package decoders provides implementations of the PageDecoder interface
// for the file formats pagelayout reads. Each decoder knows how to turn a
// file into pages of positioned text blocks.
//
// Decoders are registered with the Registry at startup.
package decoders
