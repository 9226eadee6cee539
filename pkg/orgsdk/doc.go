// Package orgsdk is a typed Go client for the ClassHub authorization
// service. It covers tenant provisioning, role and permission management,
// membership administration and the invitation lifecycle.
//
// The SDK does not authenticate users. Callers obtain a session token from
// the platform identity service and hand it to NewClient; every request
// carries it as a bearer token.
package orgsdk
