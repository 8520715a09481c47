// Package publish derives the JSON schema from the hand-maintained YAML
// schema and writes both into the documentation site's static assets.
//
// Publishing writes two files into the destination directory:
//   - `pls_config.json`, the document encoded as 2-space indented JSON with
//     the `.yml` suffix of its `$id` replaced by `.json`.
//   - `pls_config.yml`, a byte-for-byte copy of the source.
//
// Everything that can fail before writing (reading, decoding, `$id` checks,
// optional schema verification) does so before the destination is touched.
// The two writes are not atomic as a pair.
package publish
