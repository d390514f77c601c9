// Package connectors holds the adapters that read transcripts from where
// they live. The filesystem connector lists project directories, reads
// transcript files and watches the tree for changes.
package connectors
