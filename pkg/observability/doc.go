/*
Package observability provides lifecycle hooks for monitoring the navigation
engine: Prometheus metrics, structured logging, and a helper to chain several
hook sets together.
*/
package observability
