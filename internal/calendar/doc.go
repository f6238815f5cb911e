// Package calendar provides a client for event operations against the
// Google Calendar API on behalf of one resolved identity.
//
// The client is a stateless translation layer: inbound payloads are mapped
// to the remote event representation (start and end nested under a fixed
// zone label), updates are merged field-by-presence into the fetched
// remote object, and remote events are flattened back into the outbound
// representation.
package calendar
