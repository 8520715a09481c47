// Package schema decodes the hand-maintained YAML configuration schema into a
// [Document] that can be inspected, have its `$id` rewritten, and be encoded
// as JSON.
//
// Key order from the YAML source is preserved in the JSON output, aliases are
// resolved and `<<` merge keys are expanded.
package schema
