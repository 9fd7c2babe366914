// Package common contains shared constants and sentinel errors used across
// LoveOps components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// PhotoBucket is the object storage bucket holding uploaded photos.
const PhotoBucket = "love_ops_photos"
