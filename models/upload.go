package models

import "io"

// Upload is a video received from a client, before it touches the disk.
type Upload struct {
	Filename string
	Body     io.Reader
	Size     int64
}

// Result is what a successful pipeline run hands back to the caller.
type Result struct {
	RunID      string
	Transcript string
	Variants   map[Platform]string
}
