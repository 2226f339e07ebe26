package common

// AuthorizationHeaderName carries the access token on protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the access token inside the Authorization header.
const BearerScheme = "Bearer"
