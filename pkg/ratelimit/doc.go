// Package ratelimit implements a sliding-window rate limiter for the public
// intake endpoints.
//
// The limiter tracks individual request timestamps per client key. On every
// check, timestamps older than the window are pruned and the request is
// admitted only while fewer than the limit survive. The reset time reported
// to rejected clients is the moment the oldest surviving request leaves the
// window.
//
// Storage is pluggable: an in-memory store for single-process deployments
// and tests, and a Redis-backed store for production. The read-modify-write
// sequence against the store is not atomic, so concurrent bursts from one
// client can transiently exceed the nominal quota. The limit is a
// best-effort bound, not a hard guarantee.
package ratelimit
