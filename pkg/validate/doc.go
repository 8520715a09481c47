// Package validate checks `.pls.yml` configuration files against the
// published JSON schema.
package validate
