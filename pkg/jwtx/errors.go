package jwtx

import "errors"

var (
	// ErrParse indicates the token could not be parsed or its signature is invalid.
	ErrParse = errors.New("jwtx: token parse failed")
	// ErrIssuer indicates the iss claim does not match the expected issuer.
	ErrIssuer = errors.New("jwtx: unexpected issuer")
	// ErrExpired indicates the token is outside its validity window.
	ErrExpired = errors.New("jwtx: token expired or not yet valid")
	// ErrSubject indicates the token has no subject claim.
	ErrSubject = errors.New("jwtx: missing subject")
)
