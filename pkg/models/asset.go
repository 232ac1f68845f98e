package models

// ImageAsset is one corpus image, immutable once loaded. ID is the file
// stem used to key result records and reference transcriptions.
type ImageAsset struct {
	ID   string
	Path string
	Raw  []byte
}
