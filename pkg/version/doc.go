// Package version provides version information for the application.
//
// Values can be set at link time with -ldflags "-X"; otherwise they are
// filled from the module build information where available.
package version
