// Package codec encodes and decodes tracked documents.
//
// # Usage
//
//	// Decode YAML into a tracked document
//	doc, err := codec.Decode(data, codec.DecodeFormat(format.YAMLFormat))
//
//	// Encode it as indented JSON
//	err = codec.Encode(doc, os.Stdout, codec.EncodeFormat(format.JSONFormat))
//
// Encoding walks a tracked tree in its own order: map keys come out in
// insertion order for JSON and YAML. TOML output is key-sorted and requires a
// map at the root. Parent references are never encoded.
//
// Decoding builds containers through a track.Registry (track.DefaultRegistry
// unless DecodeRegistry is given), so the result of decoding is tracked to
// the depth the registry tracks. YAML mappings are decoded in document order
// as yaml.MapSlice, which this package registers with track.DefaultRegistry.
//
// # Related Packages
//
//   - github.com/signadot/mutjson/track - tracked containers
//   - github.com/signadot/mutjson/format - format names
package codec
