// Package giterror classifies errors returned by the GitHub GraphQL and REST
// APIs so callers can decide between retrying, shrinking a page, and failing,
// without scattering string matching through the codebase. It also carries
// retry annotations added by the HTTP transport.
package giterror
