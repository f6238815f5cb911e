// Package server implements the HTTP surface of the service: the
// delegated-authorization entry points (/authorize and /auth/callback),
// the event operations on /events, health probes, and a dedicated
// Prometheus metrics listener.
//
// Every event operation identifies its user through the email query
// parameter, resolves the stored credential, and borrows it for exactly
// one request. Callers without a stored credential are redirected into
// the consent flow instead of receiving an error.
package server
