// Package file provides flat-file implementations of the document store
// and the artifact store. The corpus is a directory tree of text files;
// the generated artifacts are two human-inspectable JSON files replaced
// atomically on write.
package file
