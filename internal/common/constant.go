package common

// AuthorizationHeaderName carries the bearer session token on admin requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// APIPrefix is the mount point of the REST surface.
const APIPrefix = "/api"
