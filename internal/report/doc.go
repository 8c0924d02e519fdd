// Package report renders intake results and journal history.
//
// This package contains writers for different output formats:
//   - TextWriter: the plain output document, as the HTTP endpoint returns it
//   - JSONWriter: the {"outputText", "assumptions"} body for tool integration
//   - MarkdownWriter: a Markdown rendering for sharing in docs and tickets
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
