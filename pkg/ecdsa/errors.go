package ecdsa

import "errors"

// Errors returned for malformed caller input. An adversarial signature
// handed to Verify is not an error condition: it simply fails to verify.
var (
	ErrInvalidPrivateKey = errors.New("ecdsa: private key must be in [1, n-1]")
	ErrInvalidPublicKey  = errors.New("ecdsa: malformed public key")
	ErrInvalidSignature  = errors.New("ecdsa: malformed signature")
)
