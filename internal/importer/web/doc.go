// Package web implements the web import pipeline: a depth-bounded,
// breadth-first crawl over a single site that converts pages to markdown
// and writes them under the output directory.
//
// A fixed-size worker pool pulls tasks from a shared frontier. Workers
// block on a shared rate limiter before each request, apply a per-task
// timeout, and retry transient failures a fixed number of times. Task
// failures are recorded in the run summary and never abort the crawl.
package web
