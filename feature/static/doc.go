// Package static serves the labeling web application from a local directory.
//
// Request paths are resolved against a single root directory through an afero
// filesystem rooted there, so no request can read outside it. "/" maps to
// index.html. Missing files, directories and paths containing ".." all answer
// 404 with a plain-text body.
//
// Content types come from the file extension; files with an unknown extension
// are sniffed with mimetype.
package static
