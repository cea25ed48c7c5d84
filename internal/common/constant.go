package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests to the matching backend.
const AccessTokenHeaderName = "access_token"
