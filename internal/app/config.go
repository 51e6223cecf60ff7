package app

// ApiAccessKey is the key that guards the REST API.
type ApiAccessKey string

// SigningKey is the secret used to sign delegated trust tokens.
type SigningKey []byte
