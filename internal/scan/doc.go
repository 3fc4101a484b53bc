// Package scan defines the request/response types and collaborator
// interfaces shared by the fetch, filter, persist and dispatch stages.
package scan
