// Package format names the document formats mutjson reads and writes.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	if err != nil {
//	    // errors.Is(err, format.ErrBadFormat)
//	}
//	name := f.Ext() // "yaml"
//
// Format implements encoding.TextMarshaler and encoding.TextUnmarshaler so it
// can be used directly in configuration files.
//
// # Related Packages
//
//   - github.com/signadot/mutjson/codec - encodes and decodes tracked documents
package format
