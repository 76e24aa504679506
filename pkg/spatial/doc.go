// Package spatial holds the small amount of 3D math the rest of the module needs:
// vectors, unit quaternions, column-major transforms and poses.
//
// Conventions follow the head-mounted display runtime the notes live in: right-handed
// world space, Y up, the observer looks down -Z when its transform is the identity.
package spatial
